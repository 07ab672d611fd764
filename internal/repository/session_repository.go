package repository

import (
	"time"

	"interview_prep_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.InterviewSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.InterviewSession, error) {
	var s model.InterviewSession
	err := r.DB.First(&s, "id = ?", id).Error
	return &s, err
}

// MarkCompleted stamps completed_at. Callers only invoke this once per
// session under correct operation; the column is simply overwritten if not.
func (r *SessionRepository) MarkCompleted(id string, at time.Time) error {
	res := r.DB.Model(&model.InterviewSession{}).
		Where("id = ?", id).
		Update("completed_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
