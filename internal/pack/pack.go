package pack

import "math"

// DefaultPadding is the gap between packed circles before scaling.
const DefaultPadding = 1.5

// Layout packs one circle per weight inside a width×height rectangle.
// Radii are proportional to sqrt(weight); negative weights count as zero.
// The packing is computed once without padding to measure it, then again
// with padding scaled to the final size, and finally scaled so its
// enclosing circle fits the shorter side, centered on the rectangle.
func Layout(weights []float64, width, height, padding float64) []Circle {
	out := make([]Circle, len(weights))
	cx, cy := width/2, height/2
	side := math.Min(width, height)

	circles := make([]*Circle, len(weights))
	for i, w := range weights {
		r := 0.0
		if w > 0 {
			r = math.Sqrt(w)
		}
		circles[i] = &Circle{R: r}
	}

	rootR := Siblings(circles)
	if !(rootR > 0) || !(side > 0) {
		for i := range out {
			out[i] = Circle{X: cx, Y: cy}
		}
		return out
	}

	if pad := padding * rootR / side; pad > 0 {
		for _, c := range circles {
			c.R += pad
		}
		e := Siblings(circles)
		for _, c := range circles {
			c.R -= pad
		}
		rootR = e + pad
	}

	k := side / (2 * rootR)
	for i, c := range circles {
		out[i] = Circle{X: cx + k*c.X, Y: cy + k*c.Y, R: k * c.R}
	}
	return out
}

// Magnify moves every circle away from (cx, cy) by factor.
func Magnify(circles []Circle, cx, cy, factor float64) {
	for i := range circles {
		circles[i].X = cx + (circles[i].X-cx)*factor
		circles[i].Y = cy + (circles[i].Y-cy)*factor
	}
}
