package viz

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Camera rotates and zooms the body cloud before the x/y projection, so the
// live view can show the disc edge-on.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(100, c.Zoom*1.25) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.01, c.Zoom/1.25) }

func (c *Camera) Reset() {
	c.RotX, c.RotY, c.Zoom = 0, 0, 1
}

// Transform rotates p about the viewport center, x axis first, and applies
// zoom. The returned Z is the depth.
func (c *Camera) Transform(p dynamo.Vec3, v Viewport) dynamo.Vec3 {
	p = p.Sub(dynamo.Vec3{X: v.CenterX, Y: v.CenterY})

	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy

	p = p.Scale(c.Zoom)
	return p.Add(dynamo.Vec3{X: v.CenterX, Y: v.CenterY})
}
