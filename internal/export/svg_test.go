package export

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/viz"
)

func wellFormed(t *testing.T, svg string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("malformed svg: %v", err)
		}
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)

	svg := CanvasToSVG(c, 10, "#00ff00")
	wellFormed(t, svg)

	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="80" height="80"`) {
		t.Error("expected size from dot grid and scale")
	}
	if !strings.Contains(svg, `cx="75.0" cy="75.0"`) {
		t.Error("expected last dot centered in its cell")
	}

	if CanvasToSVG(nil, 1, "#fff") != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestTrajectoriesToSVG(t *testing.T) {
	frames := []dynamo.Bodies{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 0, Y: 0}, {X: 0, Y: 1}},
		{{X: 0, Y: 0}, {X: -1, Y: 0}},
	}

	svg := TrajectoriesToSVG(frames, 200, 100)
	wellFormed(t, svg)

	if n := strings.Count(svg, "<path"); n != 2 {
		t.Errorf("expected one path per body, got %d", n)
	}
	if n := strings.Count(svg, " L"); n != 4 {
		t.Errorf("expected 2 segments per path, got %d", n)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected final position markers, got %d", n)
	}

	if TrajectoriesToSVG(nil, 10, 10) != "" {
		t.Error("expected empty output without frames")
	}
}

func TestTrajectoriesToSVGEqualScale(t *testing.T) {
	v := viz.FitViewport([]dynamo.Vec3{{X: -1}, {X: 1}})
	x0, _ := v.Map(dynamo.Vec3{X: -1}, 200, 100)
	x1, _ := v.Map(dynamo.Vec3{X: 1}, 200, 100)

	if span := x1 - x0; span > 100 {
		t.Errorf("expected span limited by the shorter side, got %.1f", span)
	}
}
