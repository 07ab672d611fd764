package controller

import (
	"errors"

	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Service *service.SessionService
}

func NewSessionController(svc *service.SessionService) *SessionController {
	return &SessionController{Service: svc}
}

// @Summary Start a practice session
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body service.CreateSessionRequest true "Candidate info"
// @Success 201 {object} map[string]interface{}
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req service.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.CreateSession(req)
	if err != nil {
		util.InternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"session": session})
}

// @Summary Fetch a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	session, err := c.Service.GetSession(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.InternalError(ctx, err)
		return
	}

	util.OK(ctx, gin.H{"session": session})
}
