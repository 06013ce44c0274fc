package deptstate

import "time"

// Clock supplies the current time; tests swap in a fixed or stepping clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function into a Clock.
type ClockFunc func() time.Time

// Now returns the function result.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func normalizeClock(c Clock) Clock {
	if c == nil {
		return systemClock{}
	}
	return c
}
