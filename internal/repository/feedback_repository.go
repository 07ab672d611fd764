package repository

import (
	"interview_prep_backend/internal/model"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

// CreateBatch inserts all rows in one statement. Reprocessing a session
// appends another batch; nothing dedups here.
func (r *FeedbackRepository) CreateBatch(rows []model.Feedback) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Create(&rows).Error
}

func (r *FeedbackRepository) ListBySession(sessionID string) ([]model.Feedback, error) {
	var fs []model.Feedback
	err := r.DB.Where("session_id = ?", sessionID).
		Order("id asc").
		Find(&fs).Error
	return fs, err
}
