package metrics

import (
	"math"

	"github.com/san-kum/forcebubble/internal/bubble"
)

// MinGap is the separation every pair of circles should keep beyond the
// sum of their radii.
const MinGap = 1.0

// Overlap measures the worst violation of the minimum gap in the latest
// frame. Zero means every pair is far enough apart.
type Overlap struct {
	name  string
	gap   float64
	worst float64
	pair  [2]string
}

func NewOverlap(gap float64) *Overlap {
	return &Overlap{name: "overlap", gap: gap}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(f bubble.Frame) {
	o.worst, o.pair = 0, [2]string{}
	for i, a := range f.Entities {
		for _, b := range f.Entities[i+1:] {
			v := a.Radius + b.Radius + o.gap - bubble.Distance(a, b)
			if v > o.worst {
				o.worst, o.pair = v, [2]string{a.ID, b.ID}
			}
		}
	}
}

func (o *Overlap) Value() float64 { return o.worst }

// Pair returns the identifiers of the worst pair, if any overlap.
func (o *Overlap) Pair() (string, string) { return o.pair[0], o.pair[1] }

func (o *Overlap) Reset() {
	o.worst, o.pair = 0, [2]string{}
}

// Kinetic is the mean over frames of the summed squared speed.
type Kinetic struct {
	name    string
	samples int
	total   float64
}

func NewKinetic() *Kinetic {
	return &Kinetic{name: "kinetic"}
}

func (k *Kinetic) Name() string { return k.name }

func (k *Kinetic) Observe(f bubble.Frame) {
	e := 0.0
	for _, n := range f.Entities {
		e += 0.5 * (n.VX*n.VX + n.VY*n.VY)
	}
	k.total += e
	k.samples++
}

func (k *Kinetic) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *Kinetic) Reset() {
	k.total = 0
	k.samples = 0
}

// Settle records the time in seconds of the first settled frame, or NaN
// if the layout has not settled.
type Settle struct {
	name    string
	settled bool
	at      float64
}

func NewSettle() *Settle {
	return &Settle{name: "settle_time"}
}

func (s *Settle) Name() string { return s.name }

func (s *Settle) Observe(f bubble.Frame) {
	if f.Settled && !s.settled {
		s.settled, s.at = true, f.Time.Seconds()
	}
	if !f.Settled {
		s.settled = false
	}
}

func (s *Settle) Value() float64 {
	if !s.settled {
		return math.NaN()
	}
	return s.at
}

func (s *Settle) Reset() {
	s.settled, s.at = false, 0
}

// Defaults returns the metrics reported by the headless layout command.
func Defaults() []bubble.Metric {
	return []bubble.Metric{NewOverlap(MinGap), NewKinetic(), NewSettle()}
}
