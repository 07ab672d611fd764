package controller

import (
	"strings"
	"time"

	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"
	"interview_prep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type RecordingController struct {
	Storage *service.StorageService
}

func NewRecordingController(storage *service.StorageService) *RecordingController {
	return &RecordingController{Storage: storage}
}

// @Summary Upload an answer recording
// @Description Stores the blob under <sessionId>/<questionId>-<timestamp>.webm.
// @Tags recordings
// @Accept mpfd
// @Produce json
// @Param file formData file true "Recording blob"
// @Param session_id formData string true "Session id"
// @Param question_id formData int true "Question id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /recordings [post]
func (c *RecordingController) UploadRecording(ctx *gin.Context) {
	sessionID := ctx.PostForm("session_id")
	questionID := util.MustParseUint(ctx.PostForm("question_id"))
	if sessionID == "" || questionID == 0 {
		util.BadRequest(ctx, "session_id and question_id are required")
		return
	}
	// The session id becomes a storage key segment; anything that could
	// carry a path separator or dot segment is rejected outright.
	if !util.ValidStorageID(sessionID) {
		util.BadRequest(ctx, "invalid session_id")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size == 0 {
		util.BadRequest(ctx, util.ErrEmptyRecording.Error())
		return
	}

	sniff, err := fileHeader.Open()
	if err != nil {
		util.InternalError(ctx, err)
		return
	}
	mimeType, err := util.ValidateMimeType(sniff, []string{util.MimeVideo, "audio/", util.MimeOctetStream})
	sniff.Close()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !util.IsVideo(mimeType) && !strings.HasPrefix(mimeType, "audio/") {
		util.BadRequest(ctx, "unsupported recording type "+mimeType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.InternalError(ctx, err)
		return
	}
	defer file.Close()

	path := service.RecordingPath(sessionID, questionID, time.Now())
	if _, err := c.Storage.Upload(ctx.Request.Context(), path, file, fileHeader.Size, util.RecordingContentType); err != nil {
		util.InternalError(ctx, err)
		return
	}

	monitoring.RecordingsUploaded.Inc()
	monitoring.RecordingBytes.Observe(float64(fileHeader.Size))

	util.OK(ctx, gin.H{"path": path})
}
