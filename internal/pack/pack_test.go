package pack

import (
	"math"
	"testing"
)

func assertNoOverlap(t *testing.T, cs []Circle, tol float64) {
	t.Helper()
	for i := range cs {
		for j := i + 1; j < len(cs); j++ {
			d := math.Hypot(cs[i].X-cs[j].X, cs[i].Y-cs[j].Y)
			if d < cs[i].R+cs[j].R-tol {
				t.Errorf("circles %d and %d overlap: d=%.4f r=%.4f+%.4f", i, j, d, cs[i].R, cs[j].R)
			}
		}
	}
}

func testWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = float64((i*37)%23+1) * 1000
	}
	return w
}

func TestSiblings_Small(t *testing.T) {
	tests := []struct {
		name  string
		radii []float64
		want  float64
	}{
		{"empty", nil, 0},
		{"one", []float64{3}, 3},
		{"two", []float64{1, 2}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := make([]*Circle, len(tt.radii))
			for i, r := range tt.radii {
				cs[i] = &Circle{R: r}
			}
			if got := Siblings(cs); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Siblings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSiblings_NoOverlapAndEnclosed(t *testing.T) {
	weights := testWeights(60)
	cs := make([]*Circle, len(weights))
	for i, w := range weights {
		cs[i] = &Circle{R: math.Sqrt(w)}
	}
	r := Siblings(cs)

	flat := make([]Circle, len(cs))
	for i, c := range cs {
		flat[i] = *c
		if math.Hypot(c.X, c.Y)+c.R > r+1e-4 {
			t.Errorf("circle %d escapes enclosing radius %.3f", i, r)
		}
	}
	assertNoOverlap(t, flat, 1e-4)
}

func TestEnclose(t *testing.T) {
	cs := []*Circle{{X: -2, Y: 0, R: 1}, {X: 2, Y: 0, R: 1}, {X: 0, Y: 0, R: 0.5}}
	e := Enclose(cs)
	if math.Abs(e.R-3) > 1e-9 || math.Abs(e.X) > 1e-9 || math.Abs(e.Y) > 1e-9 {
		t.Errorf("Enclose() = %+v, want r=3 at origin", e)
	}

	tri := []*Circle{{X: 0, Y: 0, R: 1}, {X: 4, Y: 0, R: 1}, {X: 2, Y: 3, R: 1}}
	e = Enclose(tri)
	for i, c := range tri {
		if math.Hypot(c.X-e.X, c.Y-e.Y)+c.R > e.R+1e-6 {
			t.Errorf("circle %d not enclosed by %+v", i, e)
		}
	}
}

func TestLayout_FitsRectangle(t *testing.T) {
	const w, h = 960.0, 600.0
	cs := Layout(testWeights(80), w, h, DefaultPadding)

	if len(cs) != 80 {
		t.Fatalf("got %d circles", len(cs))
	}
	for i, c := range cs {
		if math.IsNaN(c.X) || math.IsNaN(c.Y) {
			t.Fatalf("circle %d has NaN position", i)
		}
		if math.Hypot(c.X-w/2, c.Y-h/2)+c.R > h/2+1e-6 {
			t.Errorf("circle %d outside the enclosing circle", i)
		}
	}
	assertNoOverlap(t, cs, 1e-4)
}

func TestLayout_AreaProportional(t *testing.T) {
	cs := Layout([]float64{100, 400}, 100, 100, 0)
	if ratio := cs[1].R / cs[0].R; math.Abs(ratio-2) > 1e-9 {
		t.Errorf("radius ratio = %v, want 2", ratio)
	}
}

func TestLayout_ZeroWeights(t *testing.T) {
	cs := Layout([]float64{0, 0, -5}, 200, 100, DefaultPadding)
	for i, c := range cs {
		if c.X != 100 || c.Y != 50 || c.R != 0 {
			t.Errorf("circle %d = %+v, want centered zero circle", i, c)
		}
	}

	mixed := Layout([]float64{0, 100, 0, 400}, 200, 100, DefaultPadding)
	for i, c := range mixed {
		if math.IsNaN(c.X) || math.IsNaN(c.Y) {
			t.Errorf("circle %d has NaN position", i)
		}
	}
}

func TestMagnify(t *testing.T) {
	cs := []Circle{{X: 110, Y: 90, R: 2}, {X: 100, Y: 100}}
	Magnify(cs, 100, 100, 3)

	if cs[0].X != 130 || cs[0].Y != 70 || cs[0].R != 2 {
		t.Errorf("magnified = %+v", cs[0])
	}
	if cs[1].X != 100 || cs[1].Y != 100 {
		t.Errorf("center should not move: %+v", cs[1])
	}
}
