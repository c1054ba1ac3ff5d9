package viz

import "github.com/san-kum/gravsim/internal/dynamo"

// Orbit draws the x/y paths of every body across frames on a braille canvas.
// Frames must share a body order; later frames may hold fewer bodies. The
// last position of each body is drawn as a blob.
func Orbit(frames []dynamo.Bodies, width, height int) string {
	c := NewCanvas(width, height)
	if len(frames) == 0 {
		return c.String()
	}

	points := make([]dynamo.Vec3, 0)
	for _, f := range frames {
		for _, b := range f {
			points = append(points, b.Pos())
		}
	}
	v := FitViewport(points)

	for k := 1; k < len(frames); k++ {
		prev, cur := frames[k-1], frames[k]
		for i := 0; i < len(cur) && i < len(prev); i++ {
			x0, y0 := v.Project(prev[i].Pos(), c)
			x1, y1 := v.Project(cur[i].Pos(), c)
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	for _, b := range frames[len(frames)-1] {
		x, y := v.Project(b.Pos(), c)
		c.Blob(x, y, 1)
	}

	return c.String()
}
