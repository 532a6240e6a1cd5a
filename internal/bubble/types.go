package bubble

import (
	"math"
	"time"
)

// YearRange is an inclusive range of years.
type YearRange struct {
	Start int
	End   int
}

func (r YearRange) Contains(year int) bool { return year >= r.Start && year <= r.End }

// Len is the number of years in the range, End-Start+1.
func (r YearRange) Len() int { return r.End - r.Start + 1 }

// Index maps a year to its series index. The year must be in range.
func (r YearRange) Index(year int) int { return year - r.Start }

func (r YearRange) Valid() error {
	if r.Start > r.End {
		return ErrInvalidRange
	}
	return nil
}

// Series holds one value per year; index i is year Start+i.
type Series []float64

func (s Series) Clone() Series {
	c := make(Series, len(s))
	copy(c, s)
	return c
}

// At returns the value for year, or false if year is outside yr or the series.
func (s Series) At(yr YearRange, year int) (float64, bool) {
	if !yr.Contains(year) {
		return 0, false
	}
	i := yr.Index(year)
	if i >= len(s) {
		return 0, false
	}
	return s[i], true
}

func (s Series) First() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

func (s Series) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Entity is one circle of the chart.
type Entity struct {
	ID     string
	Name   string
	Series Series

	// Radius is the current, possibly mid-transition, radius.
	Radius float64
	// Target is the steady-state radius for the selected year.
	Target float64

	X, Y   float64
	VX, VY float64

	// PinX and PinY are non-nil while the entity is held by a drag.
	PinX, PinY *float64
}

func (e *Entity) Pinned() bool { return e.PinX != nil || e.PinY != nil }

func (e *Entity) Pin(x, y float64) {
	e.PinX, e.PinY = &x, &y
}

func (e *Entity) Unpin() {
	e.PinX, e.PinY = nil, nil
}

// Radius returns sqrt(value)*k, treating negative and NaN values as zero.
func Radius(value, k float64) float64 {
	if !(value > 0) || math.IsInf(value, 1) {
		return 0
	}
	return math.Sqrt(value) * k
}

// Distance returns the distance between the centers of a and b.
func Distance(a, b *Entity) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Frame is a consistent view of the layout after one animation frame.
type Frame struct {
	Index    int
	Time     time.Duration
	Year     int
	Alpha    float64
	Settled  bool
	Entities []*Entity
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// Valid reports whether the entity's position and radius are finite.
func (e *Entity) Valid() bool {
	for _, v := range [...]float64{e.X, e.Y, e.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
