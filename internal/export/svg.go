package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/viz"
)

const background = "#0a0a0a"

// Palette colors successive body paths, wrapping around.
var Palette = []string{"#ffcc00", "#00a8cc", "#ff00ff", "#00ff00", "#ff8800", "#e0f0ff"}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG draws every set dot of a braille canvas as a circle, scale
// pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.DotWidth())*scale, float64(canvas.DotHeight())*scale)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", color)

	r := scale * 0.4
	for y := 0; y < canvas.DotHeight(); y++ {
		for x := 0; x < canvas.DotWidth(); x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TrajectoriesToSVG draws one x/y path per body across frames, with equal
// scale on both axes, and marks the final positions. Frames must share a
// body order; a body missing from a frame ends its path there.
func TrajectoriesToSVG(frames []dynamo.Bodies, width, height int) string {
	if len(frames) == 0 {
		return ""
	}

	points := make([]dynamo.Vec3, 0)
	for _, f := range frames {
		for _, b := range f {
			points = append(points, b.Pos())
		}
	}
	v := viz.FitViewport(points)
	w, h := float64(width), float64(height)

	var sb strings.Builder
	header(&sb, w, h)

	first := frames[0]
	for i := range first {
		color := Palette[i%len(Palette)]
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", color)
		for k, f := range frames {
			if i >= len(f) {
				break
			}
			x, y := v.Map(f[i].Pos(), w, h)
			if k == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	last := frames[len(frames)-1]
	for i, b := range last {
		x, y := v.Map(b.Pos(), w, h)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", x, y, Palette[i%len(Palette)])
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
