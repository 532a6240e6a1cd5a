package pack

import "math"

// Circle is a positioned circle.
type Circle struct {
	X, Y, R float64
}

type chainNode struct {
	c          *Circle
	next, prev *chainNode
}

// Siblings positions circles so that none overlap, centers the packing on
// its smallest enclosing circle at the origin and returns that circle's
// radius. Radii are read, positions are overwritten.
func Siblings(circles []*Circle) float64 {
	n := len(circles)
	if n == 0 {
		return 0
	}

	a := circles[0]
	a.X, a.Y = 0, 0
	if n == 1 {
		return a.R
	}

	b := circles[1]
	a.X, b.X, b.Y = -b.R, a.R, 0
	if n == 2 {
		return a.R + b.R
	}

	place(b, a, circles[2])

	na, nb, nc := &chainNode{c: a}, &chainNode{c: b}, &chainNode{c: circles[2]}
	na.next, nc.prev = nb, nb
	nb.next, na.prev = nc, nc
	nc.next, nb.prev = na, na

	for i := 3; i < n; i++ {
		c := circles[i]
		for {
			place(na.c, nb.c, c)

			// Find the closest intersecting circle on the front chain, measured
			// by distance along the chain in either direction.
			j, k := nb.next, na.prev
			sj, sk := nb.c.R, na.c.R
			hit := false
			for {
				if sj <= sk {
					if intersects(j.c, c) {
						nb = j
						na.next, nb.prev = nb, na
						hit = true
						break
					}
					sj += j.c.R
					j = j.next
				} else {
					if intersects(k.c, c) {
						na = k
						na.next, nb.prev = nb, na
						hit = true
						break
					}
					sk += k.c.R
					k = k.prev
				}
				if j == k.next {
					break
				}
			}
			if hit {
				continue
			}

			node := &chainNode{c: c, prev: na, next: nb}
			na.next, nb.prev = node, node
			nb = node

			// The next pair is the one closest to the centroid.
			best := score(na)
			for cur := node.next; cur != nb; cur = cur.next {
				if s := score(cur); s < best {
					na, best = cur, s
				}
			}
			nb = na.next
			break
		}
	}

	chain := []*Circle{nb.c}
	for cur := nb.next; cur != nb; cur = cur.next {
		chain = append(chain, cur.c)
	}
	e := Enclose(chain)

	for _, c := range circles {
		c.X -= e.X
		c.Y -= e.Y
	}
	return e.R
}

// place puts c tangent to both a and b.
func place(b, a, c *Circle) {
	dx, dy := b.X-a.X, b.Y-a.Y
	d2 := dx*dx + dy*dy
	if d2 == 0 {
		c.X, c.Y = a.X+c.R, a.Y
		return
	}

	a2 := (a.R + c.R) * (a.R + c.R)
	b2 := (b.R + c.R) * (b.R + c.R)
	if a2 > b2 {
		x := (d2 + b2 - a2) / (2 * d2)
		y := math.Sqrt(math.Max(0, b2/d2-x*x))
		c.X = b.X - x*dx - y*dy
		c.Y = b.Y - x*dy + y*dx
		return
	}
	x := (d2 + a2 - b2) / (2 * d2)
	y := math.Sqrt(math.Max(0, a2/d2-x*x))
	c.X = a.X + x*dx - y*dy
	c.Y = a.Y + x*dy + y*dx
}

func intersects(a, b *Circle) bool {
	dr := a.R + b.R - 1e-6
	dx, dy := b.X-a.X, b.Y-a.Y
	return dr > 0 && dr*dr > dx*dx+dy*dy
}

// score is the squared distance from the origin to the weighted midpoint
// of n and its successor.
func score(n *chainNode) float64 {
	a, b := n.c, n.next.c
	ab := a.R + b.R
	if ab == 0 {
		mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
		return mx*mx + my*my
	}
	dx := (a.X*b.R + b.X*a.R) / ab
	dy := (a.Y*b.R + b.Y*a.R) / ab
	return dx*dx + dy*dy
}
