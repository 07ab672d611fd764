package service

import (
	"encoding/json"
	"math/rand"
	"time"

	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/util"
	"interview_prep_backend/pkg/logger"
	"interview_prep_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Feedback content is a fixed template; only the readiness score varies,
// uniformly in [60, 90). None of it is computed from recording content.
var (
	templateStrengths    = []string{"Clear structure", "Good pacing"}
	templateImprovements = []string{"Add metric", "Be more concise"}
	templateSummary      = "Mock summary: well structured, add more metrics."

	summaryStrengths = []string{
		"Clear structure in most answers",
		"Good pace and confident delivery",
	}
	summaryImprovements = []string{
		"Reduce filler words in high-pressure moments",
		"Add measurable outcomes in product examples",
	}
)

type FeedbackService struct {
	Feedback *repository.FeedbackRepository
	Answers  *repository.AnswerRepository
	Sessions *repository.SessionRepository
}

func NewFeedbackService(feedback *repository.FeedbackRepository, answers *repository.AnswerRepository, sessions *repository.SessionRepository) *FeedbackService {
	return &FeedbackService{Feedback: feedback, Answers: answers, Sessions: sessions}
}

// ProcessResult reports a completion run. Warning is set when feedback rows
// were written but the completion stamp failed; that counts as success.
type ProcessResult struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
}

// ProcessSession synthesizes one feedback row per answer and stamps the
// session's completion time. There is no idempotence guard: running it twice
// for the same session appends a second batch of rows.
func (s *FeedbackService) ProcessSession(sessionID string) (*ProcessResult, error) {
	if sessionID == "" {
		return nil, util.ErrSessionIDRequired
	}

	answers, err := s.Answers.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Feedback, 0, len(answers))
	for _, a := range answers {
		answerID := a.ID
		rows = append(rows, model.Feedback{
			SessionID:      sessionID,
			AnswerID:       &answerID,
			Strengths:      mustJSON(templateStrengths),
			Improvements:   mustJSON(templateImprovements),
			Summary:        templateSummary,
			ReadinessScore: 60 + rand.Intn(30),
		})
	}

	if err := s.Feedback.CreateBatch(rows); err != nil {
		monitoring.SessionsProcessed.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := s.Sessions.MarkCompleted(sessionID, time.Now()); err != nil {
		logger.Log.Error("failed to stamp session completion",
			zap.String("session_id", sessionID), zap.Error(err))
		monitoring.SessionsProcessed.WithLabelValues("partial").Inc()
		return &ProcessResult{
			Success: true,
			Warning: "Feedback created but failed to update session completed_at",
		}, nil
	}

	monitoring.SessionsProcessed.WithLabelValues("ok").Inc()
	return &ProcessResult{Success: true}, nil
}

// SessionSummary is the fixed-template response of POST /feedback.
type SessionSummary struct {
	SessionID    string   `json:"sessionId"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// SummarizeSession returns the templated session-level summary. Persistence
// is best effort: a failed insert is logged and the summary still returned.
func (s *FeedbackService) SummarizeSession(sessionID string) (*SessionSummary, error) {
	if sessionID == "" {
		return nil, util.ErrSessionIDRequired
	}

	summary := &SessionSummary{
		SessionID:    sessionID,
		Strengths:    summaryStrengths,
		Improvements: summaryImprovements,
	}

	row := model.Feedback{
		SessionID:      sessionID,
		Strengths:      mustJSON(summary.Strengths),
		Improvements:   mustJSON(summary.Improvements),
		Summary:        templateSummary,
		ReadinessScore: 60 + rand.Intn(30),
	}
	if err := s.Feedback.CreateBatch([]model.Feedback{row}); err != nil {
		logger.Log.Warn("session summary persistence failed",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	return summary, nil
}

func (s *FeedbackService) ListBySession(sessionID string) ([]model.Feedback, error) {
	return s.Feedback.ListBySession(sessionID)
}

func mustJSON(v interface{}) datatypes.JSON {
	data, _ := json.Marshal(v)
	return datatypes.JSON(data)
}
