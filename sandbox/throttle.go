package sandbox

import "time"

// Throttle gates work to at most once per Interval of simulation time.
type Throttle struct {
	Interval time.Duration

	last    time.Duration
	started bool
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		Interval: interval,
	}
}

// Ready reports whether now is at least Interval past the last ready time; the first call is always ready.
func (t *Throttle) Ready(now time.Duration) bool {
	if t.started && now-t.last < t.Interval {
		return false
	}

	t.last = now
	t.started = true

	return true
}

func (t *Throttle) Reset() {
	t.last = 0
	t.started = false
}
