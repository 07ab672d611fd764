package app

import (
	"interview_prep_backend/docs"
	"interview_prep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// The whole workflow is unauthenticated: session state travels as
	// query parameters between client screens.
	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		api.POST("/sessions", c.session.CreateSession)
		api.GET("/sessions/:id", c.session.GetSession)
		api.GET("/questions", c.question.ListQuestions)
		api.GET("/questions/:id", c.question.GetQuestion)
		api.POST("/answers", c.answer.CreateAnswer)
		api.GET("/answers", c.answer.ListAnswers)
		api.POST("/recordings", c.recording.UploadRecording)
		api.POST("/process-session", c.feedback.ProcessSession)
		api.POST("/feedback", c.feedback.GetFeedback)
	}
}
