package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille pixel grid. Every cell also records the ink it was
// last drawn with so Render can color it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	ink [][]int
	pen int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		ink:    make([][]int, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.ink[i] = make([]int, w)
	}
	c.Clear()
	return c
}

// Pen selects the ink used by subsequent drawing calls.
func (c *Canvas) Pen(ink int) { c.pen = ink }

// Set sets a pixel at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.ink[row][col] = c.pen
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.ink[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws a circle outline with the midpoint algorithm. A radius
// below one sub-pixel draws a single dot.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Set(cx+p[0], cy+p[1])
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// FillCircle sets every pixel inside the circle.
func (c *Canvas) FillCircle(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		w := int(math.Sqrt(float64(r*r - dy*dy)))
		for dx := -w; dx <= w; dx++ {
			c.Set(cx+dx, cy+dy)
		}
	}
}

// Label writes text into the cells starting at cell (col, row), replacing
// whatever was drawn there.
func (c *Canvas) Label(col, row int, text string) {
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range []rune(text) {
		if x := col + i; x >= 0 && x < c.Width {
			c.Grid[row][x] = r
			c.ink[row][x] = c.pen
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors every run of cells with the style of its ink. Inks outside
// the palette are left unstyled.
func (c *Canvas) Render(palette []lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.ink[i][j] == c.ink[i][start] {
				continue
			}
			run := string(row[start:j])
			if ink := c.ink[i][start]; ink > 0 && ink < len(palette) {
				run = palette[ink].Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Projection maps layout coordinates onto canvas sub-pixels with a uniform
// scale, centering the layout rectangle.
type Projection struct {
	Scale      float64
	OffX, OffY float64
}

// Fit returns the projection of a w×h layout onto a cols×rows canvas.
func Fit(w, h float64, cols, rows int) Projection {
	pw, ph := float64(cols*2), float64(rows*4)
	s := math.Min(pw/w, ph/h)
	return Projection{
		Scale: s,
		OffX:  (pw - w*s) / 2,
		OffY:  (ph - h*s) / 2,
	}
}

func (p Projection) ToCanvas(x, y float64) (int, int) {
	return int(math.Round(p.OffX + x*p.Scale)), int(math.Round(p.OffY + y*p.Scale))
}

func (p Projection) ToWorld(px, py int) (float64, float64) {
	return (float64(px) - p.OffX) / p.Scale, (float64(py) - p.OffY) / p.Scale
}

// Length converts a layout distance to sub-pixels.
func (p Projection) Length(d float64) int {
	return int(math.Round(d * p.Scale))
}
