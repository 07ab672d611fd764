package capture

import "time"

// Clock abstracts timer scheduling so tests can drive ticks deterministically.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// NewRealClock returns a Clock backed by time.AfterFunc.
func NewRealClock() Clock {
	return realClock{}
}
