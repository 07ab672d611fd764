package controller

import (
	"errors"

	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	Service *service.AnswerService
}

func NewAnswerController(svc *service.AnswerService) *AnswerController {
	return &AnswerController{Service: svc}
}

// @Summary Record an answer row
// @Description All fields are required; the blob must already be uploaded.
// @Tags answers
// @Accept json
// @Produce json
// @Param body body service.CreateAnswerRequest true "Answer row"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /answers [post]
func (c *AnswerController) CreateAnswer(ctx *gin.Context) {
	var req service.CreateAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.Service.CreateAnswer(req)
	if err != nil {
		if errors.Is(err, util.ErrMissingField) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.InternalError(ctx, err)
		return
	}

	util.OK(ctx, gin.H{"answer": answer})
}

// @Summary List a session's answers
// @Description Rows come back in insertion order, one per recorded take.
// @Tags answers
// @Produce json
// @Param session_id query string true "Session id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /answers [get]
func (c *AnswerController) ListAnswers(ctx *gin.Context) {
	sessionID := ctx.Query("session_id")
	if sessionID == "" {
		util.BadRequest(ctx, util.ErrSessionIDRequired.Error())
		return
	}

	answers, err := c.Service.ListBySession(sessionID)
	if err != nil {
		util.InternalError(ctx, err)
		return
	}

	util.OK(ctx, gin.H{"answers": answers})
}
