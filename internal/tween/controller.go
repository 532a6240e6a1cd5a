package tween

import (
	"math"
	"time"

	"github.com/san-kum/forcebubble/internal/bubble"
)

type State int

const (
	Idle State = iota
	Transitioning
)

func (s State) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// Track is the transition state of one entity.
type Track struct {
	State State
	Tween Tween
}

// Controller animates entity radii. Tracks are indexed like the entity
// slice it was built with.
type Controller struct {
	entities []*bubble.Entity
	tracks   []Track
	duration time.Duration
}

func NewController(entities []*bubble.Entity, duration time.Duration) *Controller {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Controller{
		entities: entities,
		tracks:   make([]Track, len(entities)),
		duration: duration,
	}
}

func (c *Controller) Duration() time.Duration { return c.duration }

func (c *Controller) Track(i int) Track { return c.tracks[i] }

// Start begins a transition of entity i toward radius to. The start value
// is the entity's current radius, so a transition already in flight is
// superseded from wherever it had got to.
func (c *Controller) Start(i int, to float64, now time.Duration, ease Ease) {
	e := c.entities[i]
	e.Target = to
	c.tracks[i] = Track{
		State: Transitioning,
		Tween: Tween{From: e.Radius, To: to, Start: now, Duration: c.duration, Ease: ease},
	}
}

// StartAll starts a transition for every entity, with targets from target.
func (c *Controller) StartAll(now time.Duration, ease Ease, target func(*bubble.Entity) float64) {
	for i, e := range c.entities {
		c.Start(i, target(e), now, ease)
	}
}

// Step writes the interpolated radius at now into every transitioning
// entity and returns how many are still transitioning.
func (c *Controller) Step(now time.Duration) int {
	active := 0
	for i := range c.tracks {
		tr := &c.tracks[i]
		if tr.State != Transitioning {
			continue
		}
		e := c.entities[i]
		if tr.Tween.Done(now) {
			e.Radius = math.Max(0, tr.Tween.To)
			tr.State = Idle
			continue
		}
		e.Radius = math.Max(0, tr.Tween.Value(now))
		active++
	}
	return active
}

// Active returns the number of entities still transitioning.
func (c *Controller) Active() int {
	n := 0
	for _, tr := range c.tracks {
		if tr.State == Transitioning {
			n++
		}
	}
	return n
}
