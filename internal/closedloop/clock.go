package closedloop

import "time"

// Clock supplies monotonic millisecond timestamps for trace samples.
// Diff must be wrap-safe when the clock is backed by a fixed-width
// hardware counter.
type Clock interface {
	Now() int64
	Diff(t1, t0 int64) int64
}

type systemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock counting milliseconds from the moment
// it is created. Go's monotonic reading never wraps, so Diff is plain
// subtraction.
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() int64 {
	return time.Since(c.start).Milliseconds()
}

func (c *systemClock) Diff(t1, t0 int64) int64 {
	return t1 - t0
}
