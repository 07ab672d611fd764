package util

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionIDRequired = errors.New("sessionId required")
	ErrMissingField      = errors.New("missing required field")
	ErrEmptyRecording    = errors.New("recorded blob is empty")
	ErrNoQuestions       = errors.New("no questions found")
)
