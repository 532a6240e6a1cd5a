package tween

import "time"

// DefaultDuration is the length of entrance and year-change transitions.
const DefaultDuration = 2000 * time.Millisecond

// Tween interpolates a scalar from From to To over Duration from Start.
type Tween struct {
	From     float64
	To       float64
	Start    time.Duration
	Duration time.Duration
	Ease     Ease
}

// Progress returns normalized time at now, clamped to [0, 1].
func (tw Tween) Progress(now time.Duration) float64 {
	if tw.Duration <= 0 {
		return 1
	}
	t := float64(now-tw.Start) / float64(tw.Duration)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

func (tw Tween) Done(now time.Duration) bool { return tw.Progress(now) >= 1 }

// Value returns the interpolated value at now. It is exactly To once done.
func (tw Tween) Value(now time.Duration) float64 {
	t := tw.Progress(now)
	if t >= 1 {
		return tw.To
	}
	ease := tw.Ease
	if ease == nil {
		ease = Linear
	}
	return tw.From + (tw.To-tw.From)*ease(t)
}
