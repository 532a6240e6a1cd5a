package force

import (
	"math"
	"math/rand"

	"github.com/san-kum/forcebubble/internal/bubble"
)

const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
)

// DefaultAlphaDecay takes alpha from 1 to DefaultAlphaMin in 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// Force contributes velocity to entities each tick.
type Force interface {
	Initialize(nodes []*bubble.Entity, rng *rand.Rand)
	Apply(alpha float64)
}

type namedForce struct {
	name  string
	force Force
}

type Simulation struct {
	nodes         []*bubble.Entity
	forces        []namedForce
	rng           *rand.Rand
	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
	stopped       bool
	ticks         int
}

func New(nodes []*bubble.Entity, seed int64) *Simulation {
	return &Simulation{
		nodes:         nodes,
		rng:           rand.New(rand.NewSource(seed)),
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: 1 - DefaultVelocityDecay,
	}
}

// Add registers f under name, replacing any force already registered
// under that name in place.
func (s *Simulation) Add(name string, f Force) *Simulation {
	f.Initialize(s.nodes, s.rng)
	for i := range s.forces {
		if s.forces[i].name == name {
			s.forces[i].force = f
			return s
		}
	}
	s.forces = append(s.forces, namedForce{name: name, force: f})
	return s
}

func (s *Simulation) Force(name string) Force {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force
		}
	}
	return nil
}

func (s *Simulation) Nodes() []*bubble.Entity { return s.nodes }

func (s *Simulation) Alpha() float64       { return s.alpha }
func (s *Simulation) AlphaMin() float64    { return s.alphaMin }
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }
func (s *Simulation) Ticks() int           { return s.ticks }

func (s *Simulation) SetAlpha(a float64) { s.alpha = a }

func (s *Simulation) SetAlphaTarget(a float64) { s.alphaTarget = a }

func (s *Simulation) SetAlphaDecay(d float64) { s.alphaDecay = d }

// SetVelocityDecay sets the fraction of velocity lost per tick.
func (s *Simulation) SetVelocityDecay(d float64) { s.velocityDecay = 1 - d }

// Restart resumes stepping after the simulation settled or was stopped.
func (s *Simulation) Restart() { s.stopped = false }

func (s *Simulation) Stop() { s.stopped = true }

// Active reports whether Step would tick.
func (s *Simulation) Active() bool {
	return !s.stopped && s.alpha >= s.alphaMin
}

// Step ticks once if the simulation is active and stops it when alpha
// falls below the minimum. It reports whether a tick ran.
func (s *Simulation) Step() bool {
	if !s.Active() {
		return false
	}
	s.Tick()
	if s.alpha < s.alphaMin {
		s.stopped = true
	}
	return true
}

// Tick advances the simulation by one tick regardless of alpha.
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, nf := range s.forces {
		nf.force.Apply(s.alpha)
	}

	for _, n := range s.nodes {
		if n.PinX != nil {
			n.X, n.VX = *n.PinX, 0
		} else {
			n.VX *= s.velocityDecay
			n.X += n.VX
		}
		if n.PinY != nil {
			n.Y, n.VY = *n.PinY, 0
		} else {
			n.VY *= s.velocityDecay
			n.Y += n.VY
		}
	}
	s.ticks++
}

func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}
