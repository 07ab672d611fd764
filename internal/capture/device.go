package capture

import (
	"context"
	"time"
)

// Stream is a live device stream. Close stops every underlying track and is
// safe to call more than once.
type Stream interface {
	AudioOnly() bool
	Close() error
}

// DeviceProvider acquires device streams. AcquireStream asks for combined
// audio+video; AcquireAudioStream is the degraded fallback.
type DeviceProvider interface {
	AcquireStream(ctx context.Context) (Stream, error)
	AcquireAudioStream(ctx context.Context) (Stream, error)
}

// Encoder turns a stream into a finalized blob. Start begins encoding with a
// bounded chunk-emission interval so partial data survives a delayed stop;
// Stop finalizes and returns the concatenated bytes.
type Encoder interface {
	Start(stream Stream, chunkInterval time.Duration) error
	Stop(ctx context.Context) ([]byte, error)
}

// ObjectStore persists a finalized recording and reports the storage path it
// ended up under (<sessionId>/<questionId>-<timestamp>.webm).
type ObjectStore interface {
	PutRecording(ctx context.Context, sessionID string, questionID uint, blob []byte) (string, error)
}

// AnswerStore inserts the answer row after a successful upload.
type AnswerStore interface {
	InsertAnswer(ctx context.Context, sessionID string, questionID uint, videoPath string, duration int) error
}

// Result is handed to the Navigator when a question visit completes.
type Result struct {
	SessionID  string
	QuestionID uint
	VideoPath  string
	Duration   int
	AudioOnly  bool
}

// Navigator is signaled exactly once, on successful submission, so the
// surrounding flow can advance to the next question or the completion screen.
type Navigator interface {
	Advance(result Result)
}
