package pack

import "math"

// Enclose returns the smallest circle enclosing every circle.
func Enclose(circles []*Circle) Circle {
	var (
		basis []*Circle
		e     Circle
		have  bool
	)
	for i := 0; i < len(circles); {
		p := circles[i]
		if have && enclosesWeak(e, p) {
			i++
			continue
		}
		next, ok := extendBasis(basis, p)
		if !ok {
			return coarseEnclose(circles)
		}
		basis = next
		e, have = encloseBasis(basis), true
		i = 0
	}
	return e
}

func extendBasis(basis []*Circle, p *Circle) ([]*Circle, bool) {
	if enclosesWeakAll(*p, basis) {
		return []*Circle{p}, true
	}

	for _, b := range basis {
		if enclosesNot(*p, *b) && enclosesWeakAll(encloseBasis2(b, p), basis) {
			return []*Circle{b, p}, true
		}
	}

	for i := 0; i < len(basis)-1; i++ {
		for j := i + 1; j < len(basis); j++ {
			bi, bj := basis[i], basis[j]
			if enclosesNot(encloseBasis2(bi, bj), *p) &&
				enclosesNot(encloseBasis2(bi, p), *bj) &&
				enclosesNot(encloseBasis2(bj, p), *bi) &&
				enclosesWeakAll(encloseBasis3(bi, bj, p), basis) {
				return []*Circle{bi, bj, p}, true
			}
		}
	}
	return nil, false
}

func enclosesNot(a, b Circle) bool {
	dr := a.R - b.R
	dx, dy := b.X-a.X, b.Y-a.Y
	return dr < 0 || dr*dr < dx*dx+dy*dy
}

func enclosesWeak(a Circle, b *Circle) bool {
	dr := a.R - b.R + math.Max(math.Max(a.R, b.R), 1)*1e-9
	dx, dy := b.X-a.X, b.Y-a.Y
	return dr > 0 && dr*dr > dx*dx+dy*dy
}

func enclosesWeakAll(a Circle, basis []*Circle) bool {
	for _, b := range basis {
		if !enclosesWeak(a, b) {
			return false
		}
	}
	return true
}

func encloseBasis(basis []*Circle) Circle {
	switch len(basis) {
	case 1:
		return *basis[0]
	case 2:
		return encloseBasis2(basis[0], basis[1])
	default:
		return encloseBasis3(basis[0], basis[1], basis[2])
	}
}

func encloseBasis2(a, b *Circle) Circle {
	x21, y21, r21 := b.X-a.X, b.Y-a.Y, b.R-a.R
	l := math.Sqrt(x21*x21 + y21*y21)
	if l == 0 {
		if a.R >= b.R {
			return *a
		}
		return *b
	}
	return Circle{
		X: (a.X + b.X + x21/l*r21) / 2,
		Y: (a.Y + b.Y + y21/l*r21) / 2,
		R: (l + a.R + b.R) / 2,
	}
}

// encloseBasis3 solves for the circle internally tangent to a, b and c.
// Collinear centers yield a non-finite circle, which the callers reject.
func encloseBasis3(a, b, c *Circle) Circle {
	x1, y1, r1 := a.X, a.Y, a.R
	a2, a3 := x1-b.X, x1-c.X
	b2, b3 := y1-b.Y, y1-c.Y
	c2, c3 := b.R-r1, c.R-r1
	d1 := x1*x1 + y1*y1 - r1*r1
	d2 := d1 - b.X*b.X - b.Y*b.Y + b.R*b.R
	d3 := d1 - c.X*c.X - c.Y*c.Y + c.R*c.R
	ab := a3*b2 - a2*b3
	xa := (b2*d3-b3*d2)/(ab*2) - x1
	xb := (b3*c2 - b2*c3) / ab
	ya := (a3*d2-a2*d3)/(ab*2) - y1
	yb := (a2*c3 - a3*c2) / ab
	qa := xb*xb + yb*yb - 1
	qb := 2 * (r1 + xa*xb + ya*yb)
	qc := xa*xa + ya*ya - r1*r1

	var r float64
	if math.Abs(qa) > 1e-6 {
		r = -(qb + math.Sqrt(qb*qb-4*qa*qc)) / (2 * qa)
	} else {
		r = -qc / qb
	}
	return Circle{X: x1 + xa + xb*r, Y: y1 + ya + yb*r, R: r}
}

// coarseEnclose is a non-minimal enclosing circle around the centroid, used
// when rounding leaves no valid basis.
func coarseEnclose(circles []*Circle) Circle {
	var cx, cy float64
	for _, c := range circles {
		cx += c.X
		cy += c.Y
	}
	n := float64(len(circles))
	cx, cy = cx/n, cy/n
	r := 0.0
	for _, c := range circles {
		r = math.Max(r, math.Hypot(c.X-cx, c.Y-cy)+c.R)
	}
	return Circle{X: cx, Y: cy, R: r}
}
