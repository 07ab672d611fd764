package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"interview_prep_backend/internal/capture"
	"interview_prep_backend/internal/client"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/interview"
	"interview_prep_backend/internal/media"
	"interview_prep_backend/internal/model"
)

func main() {
	var (
		server      = flag.String("server", "http://localhost:8080", "practice API base URL")
		name        = flag.String("name", "", "candidate name")
		email       = flag.String("email", "", "candidate email")
		skill       = flag.String("skill", "Beginner", "skill tier (Beginner, Intermediate, Advanced)")
		countdown   = flag.Int("countdown", 0, "seconds before recording starts (overrides config)")
		videoDevice = flag.String("video-device", "", "video capture device (default /dev/video0)")
		audioDevice = flag.String("audio-device", "", "audio capture device (default \"default\")")
		tmpDir      = flag.String("tmp", "", "directory for intermediate recordings")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	logger := buildLogger(*verbose)
	defer logger.Sync()

	captureCfg := loadCaptureConfig(logger)
	if *countdown > 0 {
		captureCfg.CountdownSeconds = *countdown
	}

	if version, err := media.FFmpegVersion(); err != nil {
		log.Fatalf("ffmpeg check failed: %v", err)
	} else if *verbose {
		logger.Debug("ffmpeg available", zap.String("version", firstLine(version)))
	}

	device, err := media.NewProvider(media.ProviderOptions{
		VideoDevice: *videoDevice,
		AudioDevice: *audioDevice,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Failed to set up capture devices: %v", err)
	}

	api := client.New(*server, logger)

	stops := make(chan struct{})
	go watchStdin(stops)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	flow := interview.NewFlow(api, device,
		func() capture.Encoder { return media.NewEncoder(*tmpDir, logger) },
		api, api,
		interview.Options{
			Countdown:        captureCfg.CountdownSeconds,
			ChunkInterval:    captureCfg.ChunkInterval(),
			DefaultTimeLimit: captureCfg.DefaultTimeLimit,
			Logger:           logger,
			StopRequests:     stops,
			OnQuestion: func(index, total int, q model.Question) {
				fmt.Printf("\n[%d/%d] %s (%ds limit)\n", index+1, total, q.Title, q.TimeLimit)
				fmt.Println("Recording starts after the countdown. Press Enter to finish early.")
			},
		})

	outcome, err := flow.Run(ctx, *name, *email, *skill)
	if err != nil {
		if outcome != nil && len(outcome.Results) > 0 {
			fmt.Printf("Session ended early after %d answered question(s).\n", len(outcome.Results))
		}
		log.Fatalf("Session failed: %v", err)
	}

	fmt.Printf("\nSession %s complete: %d question(s) answered.\n", outcome.Session.ID, len(outcome.Results))
	if outcome.Process != nil && outcome.Process.Warning != "" {
		fmt.Printf("Warning: %s\n", outcome.Process.Warning)
	}

	printFeedback(ctx, api, outcome.Session.ID)
}

func printFeedback(ctx context.Context, api *client.Client, sessionID string) {
	fbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	summary, err := api.GetFeedback(fbCtx, sessionID)
	if err != nil {
		fmt.Printf("Could not fetch feedback: %v\n", err)
		return
	}

	fmt.Println("\nFeedback:")
	fmt.Println("  Strengths:")
	for _, s := range summary.Strengths {
		fmt.Printf("    - %s\n", s)
	}
	fmt.Println("  Improvements:")
	for _, s := range summary.Improvements {
		fmt.Printf("    - %s\n", s)
	}
}

// loadCaptureConfig reads the capture section from configs/config.yaml.
// The recorder also runs standalone, so a missing config file just means
// the built-in defaults.
func loadCaptureConfig(logger *zap.Logger) config.CaptureConfig {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		logger.Debug("config file not loaded, using capture defaults", zap.Error(err))
		return config.CaptureConfig{
			CountdownSeconds: 3,
			ChunkIntervalMS:  100,
			DefaultTimeLimit: 90,
		}
	}
	return cfg.Capture
}

// watchStdin turns each Enter press into a stop request.
func watchStdin(stops chan<- struct{}) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case stops <- struct{}{}:
		default:
		}
	}
}

func buildLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
