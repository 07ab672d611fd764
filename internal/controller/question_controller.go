package controller

import (
	"errors"

	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary List questions for a skill tier
// @Description Case-insensitive substring match on the question slug, ordered by id.
// @Tags questions
// @Produce json
// @Param skill query string false "Skill tag" default(Beginner)
// @Success 200 {object} map[string]interface{}
// @Router /questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	skill := ctx.DefaultQuery("skill", "Beginner")

	qs, err := c.Service.ListBySkill(ctx.Request.Context(), skill)
	if err != nil {
		util.InternalError(ctx, err)
		return
	}

	util.OK(ctx, gin.H{"questions": qs})
}

// @Summary Fetch a single question
// @Tags questions
// @Produce json
// @Param id path int true "Question id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	q, err := c.Service.GetQuestion(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.InternalError(ctx, err)
		return
	}

	util.OK(ctx, gin.H{"question": q})
}
