// Manually run database migration and question seeding.
//
// Migration also runs on server startup; this script exists for provisioning
// a fresh database without starting the API.
//
// Usage: go run scripts/seed_questions.go

package main

import (
	"log"
	"os"

	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/pkg/database"
	"interview_prep_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Running migration and question seeding...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	var count int64
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count questions: %v", err)
	}
	log.Printf("Done. %d question(s) in the bank.", count)
}
