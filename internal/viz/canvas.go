package viz

import (
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const brailleBlank = 0x2800

// Dot bits of one braille cell, indexed [row][col]:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid where every cell holds 2x4 dots, giving a
// resolution of (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// DotWidth and DotHeight are the canvas size in dots.
func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (*rune, rune, bool) {
	if x < 0 || y < 0 {
		return nil, 0, false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return nil, 0, false
	}
	return &c.cells[row][col], dotBits[y%4][x%2], true
}

// Set lights the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if p, bit, ok := c.cell(x, y); ok {
		*p |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if p, bit, ok := c.cell(x, y); ok {
		*p &^= bit
	}
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	p, bit, ok := c.cell(x, y)
	return ok && *p&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBlank
		}
	}
}

// Blob lights a (2r+1) square of dots centered on (x, y).
func (c *Canvas) Blob(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps the x/y plane onto canvas dots with equal scale on both axes,
// y pointing up.
type Viewport struct {
	CenterX, CenterY float64
	// Extent is the half width in meters of the largest square that fits.
	Extent float64
}

// FitViewport returns a viewport containing every position, padded by 5%.
func FitViewport(points []dynamo.Vec3) Viewport {
	if len(points) == 0 {
		return Viewport{Extent: 1}
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	extent := math.Max(maxX-minX, maxY-minY) / 2 * 1.05
	if extent == 0 {
		extent = 1
	}
	return Viewport{CenterX: (minX + maxX) / 2, CenterY: (minY + maxY) / 2, Extent: extent}
}

// Project converts a position to dot coordinates on c.
func (v Viewport) Project(p dynamo.Vec3, c *Canvas) (int, int) {
	x, y := v.Map(p, float64(c.DotWidth()), float64(c.DotHeight()))
	return int(math.Floor(x)), int(math.Floor(y))
}

// Map converts a position to coordinates on a w by h surface with the
// origin at the top left.
func (v Viewport) Map(p dynamo.Vec3, w, h float64) (float64, float64) {
	scale := math.Min(w, h) / 2 / v.Extent
	return w/2 + (p.X-v.CenterX)*scale, h/2 - (p.Y-v.CenterY)*scale
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
