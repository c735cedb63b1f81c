package mlmd

import "time"

// Clock abstracts wall-clock access so tests can pin create/update
// timestamps instead of racing real time. Implements: spec §5 "Clocks".
type Clock interface {
	NowMillis() int64
}

type systemClock struct{}

func (systemClock) NowMillis() int64 { return time.Now().UnixMilli() }

// SystemClock is the Clock used by Connect unless overridden with
// WithClock.
var SystemClock Clock = systemClock{}

// FixedClock is a Clock that always returns the same instant, for tests.
type FixedClock int64

func (f FixedClock) NowMillis() int64 { return int64(f) }
