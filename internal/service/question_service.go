package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const questionCacheKeyPrefix = "questions:skill:"
const questionCacheTTL = 5 * time.Minute

type QuestionService struct {
	Questions *repository.QuestionRepository
	Redis     *redis.Client
}

func NewQuestionService(questions *repository.QuestionRepository, rdb *redis.Client) *QuestionService {
	return &QuestionService{Questions: questions, Redis: rdb}
}

// ListBySkill returns the ordered question list for a skill tag. The question
// bank is static, so results are cached briefly in redis; cache failures fall
// through to the database.
func (s *QuestionService) ListBySkill(ctx context.Context, skill string) ([]model.Question, error) {
	if skill == "" {
		skill = "Beginner"
	}
	key := questionCacheKeyPrefix + strings.ToLower(skill)

	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached []model.Question
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("question cache read failed", zap.Error(err))
		}
	}

	qs, err := s.Questions.ListBySkill(skill)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(qs); err == nil {
			if err := s.Redis.Set(ctx, key, data, questionCacheTTL).Err(); err != nil {
				logger.Log.Warn("question cache write failed", zap.Error(err))
			}
		}
	}

	return qs, nil
}

func (s *QuestionService) GetQuestion(id uint) (*model.Question, error) {
	return s.Questions.FindByID(id)
}
