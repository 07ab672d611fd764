package interview

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"interview_prep_backend/internal/capture"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"
)

// API is the subset of the HTTP client the flow drives.
type API interface {
	CreateSession(ctx context.Context, name, email, skill string) (*model.InterviewSession, error)
	ListQuestions(ctx context.Context, skill string) ([]model.Question, error)
	ProcessSession(ctx context.Context, sessionID string) (*service.ProcessResult, error)
}

// PromptPlayer presents the interviewer's question before capture starts.
type PromptPlayer interface {
	Play(ctx context.Context, question model.Question) error
}

// NopPrompt skips question playback.
type NopPrompt struct{}

func (NopPrompt) Play(ctx context.Context, question model.Question) error { return nil }

type funcNavigator struct{ fn func(capture.Result) }

func (n funcNavigator) Advance(result capture.Result) { n.fn(result) }

// Options tunes the per-question capture controllers.
type Options struct {
	Countdown     int
	ChunkInterval time.Duration

	// DefaultTimeLimit substitutes for questions that carry no time limit.
	DefaultTimeLimit int

	Prompt PromptPlayer
	Logger *zap.Logger

	// OnQuestion is invoked before each question visit, for progress display.
	OnQuestion func(index, total int, question model.Question)

	// StopRequests ends the current answer early; one receive per question.
	// Signals arriving outside the Recording phase are ignored.
	StopRequests <-chan struct{}
}

// Outcome is everything a finished run produced.
type Outcome struct {
	Session *model.InterviewSession
	Results []capture.Result
	Process *service.ProcessResult
}

// Flow walks one candidate through a full practice session: create the
// session, then for every question in order play the prompt, run a fresh
// capture controller, and finally ask the server to process the session.
type Flow struct {
	api        API
	device     capture.DeviceProvider
	newEncoder func() capture.Encoder
	store      capture.ObjectStore
	answers    capture.AnswerStore
	opts       Options
	log        *zap.Logger
}

func NewFlow(api API, device capture.DeviceProvider, newEncoder func() capture.Encoder, store capture.ObjectStore, answers capture.AnswerStore, opts Options) *Flow {
	if opts.Prompt == nil {
		opts.Prompt = NopPrompt{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Flow{
		api:        api,
		device:     device,
		newEncoder: newEncoder,
		store:      store,
		answers:    answers,
		opts:       opts,
		log:        opts.Logger,
	}
}

// Run executes the whole session. An empty question list for the skill is
// terminal before any capture starts.
func (f *Flow) Run(ctx context.Context, name, email, skill string) (*Outcome, error) {
	session, err := f.api.CreateSession(ctx, name, email, skill)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if skill == "" {
		skill = session.Skill
	}

	questions, err := f.api.ListQuestions(ctx, skill)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	outcome := &Outcome{Session: session}
	for i, q := range questions {
		if f.opts.OnQuestion != nil {
			f.opts.OnQuestion(i, len(questions), q)
		}
		result, err := f.runQuestion(ctx, session.ID, q)
		if err != nil {
			return outcome, fmt.Errorf("question %q: %w", q.Slug, err)
		}
		outcome.Results = append(outcome.Results, result)
	}

	process, err := f.api.ProcessSession(ctx, session.ID)
	if err != nil {
		return outcome, fmt.Errorf("failed to process session: %w", err)
	}
	outcome.Process = process
	return outcome, nil
}

// runQuestion owns one question visit with its own controller, so per-visit
// state never leaks to the next question.
func (f *Flow) runQuestion(ctx context.Context, sessionID string, q model.Question) (capture.Result, error) {
	if err := f.opts.Prompt.Play(ctx, q); err != nil {
		return capture.Result{}, fmt.Errorf("failed to play prompt: %w", err)
	}

	timeLimit := q.TimeLimit
	if timeLimit <= 0 {
		timeLimit = f.opts.DefaultTimeLimit
	}

	ctrl, err := capture.New(f.device, f.newEncoder(), f.store, f.answers, funcNavigator{fn: func(capture.Result) {}}, capture.Options{
		SessionID:     sessionID,
		QuestionID:    q.ID,
		TimeLimit:     timeLimit,
		Countdown:     f.opts.Countdown,
		ChunkInterval: f.opts.ChunkInterval,
		Logger:        f.log,
	})
	if err != nil {
		return capture.Result{}, err
	}
	defer ctrl.Close()

	if err := ctrl.Start(ctx); err != nil {
		return capture.Result{}, err
	}

	f.log.Info("question started",
		zap.String("slug", q.Slug),
		zap.Int("time_limit", q.TimeLimit))

	if f.opts.StopRequests != nil {
		visitCtx, cancelVisit := context.WithCancel(ctx)
		defer cancelVisit()
		go func() {
			select {
			case <-f.opts.StopRequests:
				ctrl.Stop()
			case <-visitCtx.Done():
			}
		}()
	}

	result, err := ctrl.Wait(ctx)
	if err != nil {
		return result, err
	}
	f.log.Info("question answered",
		zap.String("slug", q.Slug),
		zap.Int("duration", result.Duration),
		zap.Bool("audio_only", result.AudioOnly))
	return result, nil
}
