package repository

import (
	"strings"

	"interview_prep_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// ListBySkill returns questions whose slug contains the skill tag,
// case-insensitively, ordered by id ascending.
func (r *QuestionRepository) ListBySkill(skill string) ([]model.Question, error) {
	var qs []model.Question
	pattern := "%" + strings.ToLower(skill) + "%"
	err := r.DB.Where("lower(slug) LIKE ?", pattern).
		Order("id asc").
		Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	return &q, err
}
