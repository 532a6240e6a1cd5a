package tween

import "math"

// Ease maps normalized time t in [0, 1] to progress, with Ease(0) = 0 and
// Ease(1) = 1.
type Ease func(t float64) float64

func Linear(t float64) float64 { return t }

// PolyOut is a cubic ease-out.
func PolyOut(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// ElasticOut overshoots and settles like a released spring, with
// amplitude 1 and period 0.3.
var ElasticOut = NewElasticOut(1, 0.3)

func NewElasticOut(amplitude, period float64) Ease {
	a := math.Max(1, amplitude)
	p := period / (2 * math.Pi)
	s := math.Asin(1/a) * p
	return func(t float64) float64 {
		return 1 - a*tpmt(t)*math.Sin((t+s)/p)
	}
}

// tpmt is 2^(-10t) shifted and scaled so that tpmt(0) = 1 and tpmt(1) = 0.
func tpmt(t float64) float64 {
	return (math.Pow(2, -10*t) - 0.0009765625) * 1.0009775171065494
}
