package repository

import (
	"interview_prep_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) Create(answer *model.Answer) error {
	return r.DB.Create(answer).Error
}

func (r *AnswerRepository) ListBySession(sessionID string) ([]model.Answer, error) {
	var as []model.Answer
	err := r.DB.Where("session_id = ?", sessionID).
		Order("id asc").
		Find(&as).Error
	return as, err
}
