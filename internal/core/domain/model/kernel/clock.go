package kernel

import "time"

// Clock supplies the current instant. Temporal checks take an explicit instant;
// Clock is only consulted where the caller asked for "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. Used by tests and replays.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// NowOr returns at, or clock.Now() when at is the zero time.
func NowOr(clock Clock, at time.Time) time.Time {
	if at.IsZero() {
		if clock == nil {
			return time.Now()
		}
		return clock.Now()
	}
	return at
}
