package controller

import (
	"errors"

	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	Service *service.FeedbackService
}

func NewFeedbackController(svc *service.FeedbackService) *FeedbackController {
	return &FeedbackController{Service: svc}
}

// processSessionRequest accepts both key spellings the clients have used.
type processSessionRequest struct {
	SessionID    string `json:"sessionId"`
	SessionIDAlt string `json:"session_id"`
}

func (r processSessionRequest) id() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.SessionIDAlt
}

// @Summary Process a finished session
// @Description Inserts templated feedback per answer and stamps completion.
// @Tags feedback
// @Accept json
// @Produce json
// @Param body body processSessionRequest true "Session id"
// @Success 200 {object} service.ProcessResult
// @Failure 400 {object} map[string]string
// @Router /process-session [post]
func (c *FeedbackController) ProcessSession(ctx *gin.Context) {
	var req processSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.ProcessSession(req.id())
	if err != nil {
		if errors.Is(err, util.ErrSessionIDRequired) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.InternalError(ctx, err)
		return
	}

	util.OK(ctx, result)
}

// @Summary Fixed-template session feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param body body processSessionRequest true "Session id"
// @Success 200 {object} service.SessionSummary
// @Failure 400 {object} map[string]string
// @Router /feedback [post]
func (c *FeedbackController) GetFeedback(ctx *gin.Context) {
	var req processSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	summary, err := c.Service.SummarizeSession(req.id())
	if err != nil {
		if errors.Is(err, util.ErrSessionIDRequired) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.InternalError(ctx, err)
		return
	}

	util.OK(ctx, summary)
}
