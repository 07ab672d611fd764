package service

import (
	"fmt"

	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/util"
)

type AnswerService struct {
	Answers *repository.AnswerRepository
}

func NewAnswerService(answers *repository.AnswerRepository) *AnswerService {
	return &AnswerService{Answers: answers}
}

type CreateAnswerRequest struct {
	SessionID  string `json:"session_id"`
	QuestionID uint   `json:"question_id"`
	VideoPath  string `json:"video_path"`
	Duration   *int   `json:"duration"`
}

func (r CreateAnswerRequest) Validate() error {
	if r.SessionID == "" {
		return fmt.Errorf("%w: session_id", util.ErrMissingField)
	}
	if r.QuestionID == 0 {
		return fmt.Errorf("%w: question_id", util.ErrMissingField)
	}
	if r.VideoPath == "" {
		return fmt.Errorf("%w: video_path", util.ErrMissingField)
	}
	if r.Duration == nil {
		return fmt.Errorf("%w: duration", util.ErrMissingField)
	}
	return nil
}

// CreateAnswer inserts one answer row. Duplicate rows for the same
// (session, question) are allowed; every recording is retained.
func (s *AnswerService) CreateAnswer(req CreateAnswerRequest) (*model.Answer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	answer := &model.Answer{
		SessionID:  req.SessionID,
		QuestionID: req.QuestionID,
		VideoPath:  req.VideoPath,
		Duration:   *req.Duration,
	}
	if err := s.Answers.Create(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *AnswerService) ListBySession(sessionID string) ([]model.Answer, error) {
	return s.Answers.ListBySession(sessionID)
}
