package force

import (
	"math"
	"math/rand"

	"github.com/san-kum/forcebubble/internal/bubble"
)

// ManyBody repels every pair of entities with strength/distance.
type ManyBody struct {
	// Strength is negative for repulsion.
	Strength float64
	// DistanceMin bounds the force between very close entities.
	DistanceMin float64

	nodes []*bubble.Entity
	rng   *rand.Rand
}

func NewManyBody() *ManyBody {
	return &ManyBody{Strength: -30, DistanceMin: 1}
}

func (f *ManyBody) Initialize(nodes []*bubble.Entity, rng *rand.Rand) {
	f.nodes, f.rng = nodes, rng
}

func (f *ManyBody) Apply(alpha float64) {
	dmin2 := f.DistanceMin * f.DistanceMin

	for i, ni := range f.nodes {
		if ni.Pinned() {
			continue
		}
		for j, nj := range f.nodes {
			if i == j {
				continue
			}
			dx := nj.X - ni.X
			dy := nj.Y - ni.Y
			l := dx*dx + dy*dy
			if l < dmin2 {
				if dx == 0 {
					dx = jiggle(f.rng)
					l += dx * dx
				}
				if dy == 0 {
					dy = jiggle(f.rng)
					l += dy * dy
				}
				l = math.Sqrt(dmin2 * l)
			}
			w := f.Strength * alpha / l
			ni.VX += dx * w
			ni.VY += dy * w
		}
	}
}

// Collide pushes apart entities whose padded circles overlap. Radii are
// read from Entity.Radius on every Apply, so radii changed by a running
// transition take effect on the same tick.
type Collide struct {
	// Padding is added to each entity's radius.
	Padding    float64
	Strength   float64
	Iterations int

	nodes []*bubble.Entity
	rng   *rand.Rand
}

func NewCollide(padding float64) *Collide {
	return &Collide{Padding: padding, Strength: 1, Iterations: 1}
}

func (f *Collide) Initialize(nodes []*bubble.Entity, rng *rand.Rand) {
	f.nodes, f.rng = nodes, rng
}

func (f *Collide) radius(n *bubble.Entity) float64 {
	return math.Max(0, n.Radius) + f.Padding
}

// predicted returns where n will be after this tick's integration.
func predicted(n *bubble.Entity) (float64, float64) {
	x, y := n.X+n.VX, n.Y+n.VY
	if n.PinX != nil {
		x = *n.PinX
	}
	if n.PinY != nil {
		y = *n.PinY
	}
	return x, y
}

func (f *Collide) Apply(alpha float64) {
	for k := 0; k < f.Iterations; k++ {
		for i, ni := range f.nodes {
			ri := f.radius(ni)
			ri2 := ri * ri
			xi, yi := predicted(ni)

			for _, nj := range f.nodes[i+1:] {
				if ni.Pinned() && nj.Pinned() {
					continue
				}
				rj := f.radius(nj)
				r := ri + rj
				xj, yj := predicted(nj)
				x, y := xi-xj, yi-yj
				l := x*x + y*y
				if l >= r*r {
					continue
				}
				if x == 0 {
					x = jiggle(f.rng)
					l += x * x
				}
				if y == 0 {
					y = jiggle(f.rng)
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * f.Strength
				x *= l
				y *= l

				// Larger circles move less; pinned circles do not move.
				share := 0.5
				if rj2 := rj * rj; ri2+rj2 > 0 {
					share = rj2 / (ri2 + rj2)
				}
				switch {
				case ni.Pinned():
					share = 0
				case nj.Pinned():
					share = 1
				}

				ni.VX += x * share
				ni.VY += y * share
				nj.VX -= x * (1 - share)
				nj.VY -= y * (1 - share)
			}
		}
	}
}

// MaxOverlap returns the deepest overlap of two padded circles at their
// current positions, or 0 when none overlap. Pairs that are both pinned
// are skipped since Apply cannot separate them.
func (f *Collide) MaxOverlap() float64 {
	worst := 0.0
	for i, ni := range f.nodes {
		ri := f.radius(ni)
		for _, nj := range f.nodes[i+1:] {
			if ni.Pinned() && nj.Pinned() {
				continue
			}
			r := ri + f.radius(nj)
			dx, dy := ni.X-nj.X, ni.Y-nj.Y
			if dx*dx+dy*dy >= r*r {
				continue
			}
			worst = math.Max(worst, r-math.Hypot(dx, dy))
		}
	}
	return worst
}

// X pulls entities toward a vertical line.
type X struct {
	Target   float64
	Strength float64

	nodes []*bubble.Entity
}

func NewX(target, strength float64) *X {
	return &X{Target: target, Strength: strength}
}

func (f *X) Initialize(nodes []*bubble.Entity, _ *rand.Rand) { f.nodes = nodes }

func (f *X) Apply(alpha float64) {
	for _, n := range f.nodes {
		if n.Pinned() {
			continue
		}
		n.VX += (f.Target - n.X) * f.Strength * alpha
	}
}

// Y pulls entities toward a horizontal line.
type Y struct {
	Target   float64
	Strength float64

	nodes []*bubble.Entity
}

func NewY(target, strength float64) *Y {
	return &Y{Target: target, Strength: strength}
}

func (f *Y) Initialize(nodes []*bubble.Entity, _ *rand.Rand) { f.nodes = nodes }

func (f *Y) Apply(alpha float64) {
	for _, n := range f.nodes {
		if n.Pinned() {
			continue
		}
		n.VY += (f.Target - n.Y) * f.Strength * alpha
	}
}
