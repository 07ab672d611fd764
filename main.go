// @title Interview Prep API
// @version 1.0
// @description Backend for the mock-interview practice tool.

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"log"

	"interview_prep_backend/internal/app"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/pkg/configwatcher"
	"interview_prep_backend/pkg/logger"
)

func main() {
	// Migration always runs on startup; -migrate-only stops after it.
	migrateOnly := flag.Bool("migrate-only", false, "run database migration and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration completed, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if c, ok := newCfg.(*config.Config); ok {
			application.ReloadConfig(c)
		}
	})

	application.Run()
}
