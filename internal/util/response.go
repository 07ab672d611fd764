package util

import (
	"net/http"

	"interview_prep_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// The API responds with plain payload objects ({"session": ...},
// {"questions": [...]}) and failures as {"error": message}, matching what
// the web client consumes.

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "resource not found")
}

func InternalError(c *gin.Context, err error) {
	logger.Log.Error("internal server error", zap.Error(err))
	Error(c, http.StatusInternalServerError, err.Error())
}
