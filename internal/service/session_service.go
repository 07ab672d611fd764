package service

import (
	"errors"
	"time"

	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/util"

	"gorm.io/gorm"
)

type SessionService struct {
	Sessions *repository.SessionRepository
}

func NewSessionService(sessions *repository.SessionRepository) *SessionService {
	return &SessionService{Sessions: sessions}
}

type CreateSessionRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Skill string `json:"skill"`
}

// CreateSession starts a practice attempt. The id is assigned here and
// carried by the client through the whole workflow as a query parameter.
func (s *SessionService) CreateSession(req CreateSessionRequest) (*model.InterviewSession, error) {
	skill := req.Skill
	if skill == "" {
		skill = "Beginner"
	}

	session := &model.InterviewSession{
		Name:      req.Name,
		Email:     req.Email,
		Skill:     skill,
		StartedAt: time.Now(),
	}
	session.ID = model.GenerateUUID()

	if err := s.Sessions.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) GetSession(id string) (*model.InterviewSession, error) {
	session, err := s.Sessions.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}
