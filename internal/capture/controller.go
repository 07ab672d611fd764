package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase is the controller's explicit state. Transitions only happen from
// specific source phases, which is what makes start/stop/submit one-shot:
// a duplicate trigger finds the phase already moved on and does nothing.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseCountingDown
	PhaseRecording
	PhaseStopping
	PhaseSubmitting
	PhaseDone
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseCountingDown:
		return "counting_down"
	case PhaseRecording:
		return "recording"
	case PhaseStopping:
		return "stopping"
	case PhaseSubmitting:
		return "submitting"
	case PhaseDone:
		return "done"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// User-facing failure messages, kept verbatim from the web client.
var (
	ErrDeviceUnavailable = errors.New("Camera/Microphone not available.")
	ErrEmptyRecording    = errors.New("Recorded blob is empty.")
	ErrNotRetryable      = errors.New("no failed submission to retry")
)

// Options configures one controller, which owns exactly one question visit.
type Options struct {
	SessionID  string
	QuestionID uint
	TimeLimit  int // seconds, must be > 0
	Countdown  int // seconds before recording starts; default 3

	ChunkInterval time.Duration // encoder flush interval; default 100ms
	Clock         Clock         // default real clock
	Logger        *zap.Logger   // default no-op
}

// Controller drives one record→stop→upload→submit cycle. All state lives
// behind one mutex; per-second ticks are chained (each callback schedules the
// next), so decrements never overlap.
type Controller struct {
	opts    Options
	device  DeviceProvider
	encoder Encoder
	store   ObjectStore
	answers AnswerStore
	nav     Navigator
	clock   Clock
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	phase     Phase
	countdown int
	remaining int
	duration  int // fixed at the stop transition
	audioOnly bool
	stream    Stream
	blob      []byte
	err       error
	timer     Timer
	closed    bool
	events    chan struct{}
}

func New(device DeviceProvider, encoder Encoder, store ObjectStore, answers AnswerStore, nav Navigator, opts Options) (*Controller, error) {
	if opts.TimeLimit <= 0 {
		return nil, fmt.Errorf("time limit must be positive, got %d", opts.TimeLimit)
	}
	if opts.Countdown <= 0 {
		opts.Countdown = 3
	}
	if opts.ChunkInterval <= 0 {
		opts.ChunkInterval = 100 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		opts:      opts,
		device:    device,
		encoder:   encoder,
		store:     store,
		answers:   answers,
		nav:       nav,
		clock:     opts.Clock,
		log:       opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
		phase:     PhaseInitializing,
		countdown: opts.Countdown,
		remaining: opts.TimeLimit,
		events:    make(chan struct{}, 1),
	}, nil
}

// Start acquires the device stream and begins the countdown. A failed
// combined acquisition degrades to audio-only; if that also fails the
// controller lands in Error.
func (c *Controller) Start(ctx context.Context) error {
	stream, err := c.device.AcquireStream(ctx)
	if err != nil {
		c.log.Debug("combined acquisition failed, trying audio-only", zap.Error(err))
		stream, err = c.device.AcquireAudioStream(ctx)
		if err != nil {
			c.mu.Lock()
			c.failLocked(ErrDeviceUnavailable)
			c.mu.Unlock()
			return ErrDeviceUnavailable
		}
		c.mu.Lock()
		c.audioOnly = true
		c.mu.Unlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		stream.Close()
		return nil
	}
	c.stream = stream
	c.phase = PhaseCountingDown
	if c.countdown <= 0 {
		c.startRecordingLocked()
		return nil
	}
	c.timer = c.clock.AfterFunc(time.Second, c.countdownTick)
	return nil
}

func (c *Controller) countdownTick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.phase != PhaseCountingDown {
		return
	}
	c.countdown--
	if c.countdown > 0 {
		c.timer = c.clock.AfterFunc(time.Second, c.countdownTick)
		return
	}
	c.startRecordingLocked()
}

// startRecordingLocked is only reachable from CountingDown, so recording can
// start at most once per visit no matter how often the zero-countdown
// condition is observed.
func (c *Controller) startRecordingLocked() {
	if err := c.encoder.Start(c.stream, c.opts.ChunkInterval); err != nil {
		c.failLocked(fmt.Errorf("failed to start recorder: %w", err))
		return
	}
	c.phase = PhaseRecording
	c.remaining = c.opts.TimeLimit
	c.log.Debug("recording started",
		zap.String("session_id", c.opts.SessionID),
		zap.Uint("question_id", c.opts.QuestionID))
	c.timer = c.clock.AfterFunc(time.Second, c.recordTick)
}

func (c *Controller) recordTick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.phase != PhaseRecording {
		return
	}
	c.remaining--
	if c.remaining > 0 {
		c.timer = c.clock.AfterFunc(time.Second, c.recordTick)
		return
	}
	c.stopLocked()
}

// Stop ends recording manually. Duplicate calls, or a manual call racing the
// automatic timeout, are no-ops: only the Recording phase can stop.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseRecording {
		return
	}
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	c.phase = PhaseStopping
	if c.timer != nil {
		c.timer.Stop()
	}
	d := c.opts.TimeLimit - c.remaining
	if d < 0 {
		d = 0
	}
	if d > c.opts.TimeLimit {
		d = c.opts.TimeLimit
	}
	c.duration = d
	go c.finalize()
}

func (c *Controller) finalize() {
	blob, err := c.encoder.Stop(c.ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.failLocked(fmt.Errorf("failed to stop recorder: %w", err))
		c.mu.Unlock()
		return
	}
	if len(blob) == 0 {
		c.failLocked(ErrEmptyRecording)
		c.mu.Unlock()
		return
	}
	c.blob = blob
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	c.submit()
}

// submit uploads the blob and inserts the answer row. It is only entered
// from Stopping (via finalize) or Error (via Retry), both of which move the
// phase to Submitting under the lock first, so at most one submission is in
// flight per visit.
func (c *Controller) submit() {
	c.mu.Lock()
	blob := c.blob
	duration := c.duration
	c.mu.Unlock()

	path, err := c.store.PutRecording(c.ctx, c.opts.SessionID, c.opts.QuestionID, blob)
	if err != nil {
		c.fail(fmt.Errorf("upload failed: %w", err))
		return
	}

	if err := c.answers.InsertAnswer(c.ctx, c.opts.SessionID, c.opts.QuestionID, path, duration); err != nil {
		c.fail(fmt.Errorf("answer insert failed: %w", err))
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.phase = PhaseDone
	result := Result{
		SessionID:  c.opts.SessionID,
		QuestionID: c.opts.QuestionID,
		VideoPath:  path,
		Duration:   duration,
		AudioOnly:  c.audioOnly,
	}
	c.notifyLocked()
	c.mu.Unlock()

	c.log.Debug("answer submitted", zap.String("path", path), zap.Int("duration", duration))
	c.nav.Advance(result)
}

// Retry re-runs the submit cycle on the retained blob after a failed
// submission. Rejected unless the controller sits in Error with a blob.
func (c *Controller) Retry() error {
	c.mu.Lock()
	if c.closed || c.phase != PhaseError || len(c.blob) == 0 {
		c.mu.Unlock()
		return ErrNotRetryable
	}
	c.err = nil
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	go c.submit()
	return nil
}

// Close releases the stream and cancels pending timers, from any phase.
// An in-flight upload may still complete in the background; its outcome is
// discarded once closed.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	stream := c.stream
	c.mu.Unlock()

	c.cancel()
	if stream != nil {
		return stream.Close()
	}
	return nil
}

// Wait blocks until the visit reaches Done or Error.
func (c *Controller) Wait(ctx context.Context) (Result, error) {
	for {
		c.mu.Lock()
		phase := c.phase
		err := c.err
		result := Result{
			SessionID:  c.opts.SessionID,
			QuestionID: c.opts.QuestionID,
			Duration:   c.duration,
			AudioOnly:  c.audioOnly,
		}
		c.mu.Unlock()

		switch phase {
		case PhaseDone:
			return result, nil
		case PhaseError:
			return result, err
		}

		select {
		case <-c.events:
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.failLocked(err)
}

func (c *Controller) failLocked(err error) {
	c.phase = PhaseError
	c.err = err
	c.log.Debug("capture failed", zap.Error(err))
	c.notifyLocked()
}

func (c *Controller) notifyLocked() {
	select {
	case c.events <- struct{}{}:
	default:
	}
}

// Phase reports the current state.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Countdown reports seconds left before recording starts.
func (c *Controller) Countdown() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countdown
}

// Remaining reports recording seconds left.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Duration reports the submitted answer length in seconds.
func (c *Controller) Duration() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// AudioOnly reports whether the visit degraded to audio-only capture.
func (c *Controller) AudioOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.audioOnly
}

// Err reports the failure that put the controller into Error, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
