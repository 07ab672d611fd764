package database

import (
	"fmt"
	"log"

	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate runs auto-migration and seeds the question bank when it is empty.
// Shared with the sqlite-backed tests and the seeding script.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.InterviewSession{},
		&model.Question{},
		&model.Answer{},
		&model.Feedback{},
	)
	if err != nil {
		return err
	}

	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count == 0 {
		for _, q := range DefaultQuestions() {
			db.Create(&q)
		}
	}

	return nil
}

// DefaultQuestions is the starter question bank. Slugs carry the skill tier
// so that the case-insensitive substring match on /questions finds them.
func DefaultQuestions() []model.Question {
	return []model.Question{
		{Slug: "beginner-intro", Title: "Tell me about yourself.", VideoPath: "prompts/beginner-intro.mp4", TimeLimit: 90, Skill: "Beginner"},
		{Slug: "beginner-strengths", Title: "What are your greatest strengths?", VideoPath: "prompts/beginner-strengths.mp4", TimeLimit: 60, Skill: "Beginner"},
		{Slug: "beginner-why-role", Title: "Why are you interested in this role?", VideoPath: "prompts/beginner-why-role.mp4", TimeLimit: 90, Skill: "Beginner"},
		{Slug: "intermediate-conflict", Title: "Describe a conflict you resolved on a team.", VideoPath: "prompts/intermediate-conflict.mp4", TimeLimit: 120, Skill: "Intermediate"},
		{Slug: "intermediate-failure", Title: "Tell me about a time you failed.", VideoPath: "prompts/intermediate-failure.mp4", TimeLimit: 120, Skill: "Intermediate"},
		{Slug: "advanced-tradeoff", Title: "Walk me through a hard product trade-off you made.", VideoPath: "prompts/advanced-tradeoff.mp4", TimeLimit: 150, Skill: "Advanced"},
		{Slug: "advanced-metrics", Title: "How do you measure the success of a launch?", VideoPath: "prompts/advanced-metrics.mp4", TimeLimit: 150, Skill: "Advanced"},
	}
}
