// Package clock abstracts time for components that wait or schedule, so
// tests can drive them deterministically instead of sleeping for real.
package clock

import "time"

// Clock is the time source used by the rate limiter, the streaming
// supervisor and the polling manager.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

// New returns a Clock backed by the system clock. time.Now carries a
// monotonic reading, so durations measured through it are unaffected by
// wall-clock adjustments.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) Sleep(d time.Duration)                  { time.Sleep(d) }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
