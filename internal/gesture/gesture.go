package gesture

import (
	"image/color"
	"math"

	"github.com/iburimskiy/wavesketch/internal/scale"
)

// Point is one recorded sample of a gesture. Note is resolved from Y when the
// point is recorded and never changes afterwards. Y is the center of the
// note's band rather than the raw pointer position.
type Point struct {
	X, Y float64
	Note scale.Note
}

// Gesture is a drawn line: points in drawing order plus a display color.
type Gesture struct {
	Color  color.RGBA
	points []Point
	frozen bool
}

// Points returns a copy of the recorded points.
func (g *Gesture) Points() []Point { return append([]Point(nil), g.points...) }

func (g *Gesture) Len() int { return len(g.points) }

// Last returns the most recently recorded point.
func (g *Gesture) Last() Point { return g.points[len(g.points)-1] }

// Frozen reports whether End has been called.
func (g *Gesture) Frozen() bool { return g.frozen }

// Recorder turns pointer positions into gestures.
type Recorder struct {
	scale      scale.Scale
	height     float64
	thresholdX float64
	thresholdY float64
	palette    *Palette
}

func NewRecorder(sc scale.Scale, height, thresholdX, thresholdY float64, palette *Palette) *Recorder {
	if palette == nil {
		palette = NewPalette(1, 0, 1)
	}
	return &Recorder{
		scale:      sc,
		height:     height,
		thresholdX: thresholdX,
		thresholdY: thresholdY,
		palette:    palette,
	}
}

// SetHeight updates the canvas height used for quantizing new points.
func (r *Recorder) SetHeight(h float64) { r.height = h }

// Scale returns the scale points are quantized against.
func (r *Recorder) Scale() scale.Scale { return r.scale }

func (r *Recorder) point(x, y float64) Point {
	n, cy := r.scale.Snap(y, r.height)
	return Point{X: x, Y: cy, Note: n}
}

// Begin starts a gesture seeded with the point at (x, y).
func (r *Recorder) Begin(x, y float64) *Gesture {
	return &Gesture{
		Color:  r.palette.Next(),
		points: []Point{r.point(x, y)},
	}
}

// Extend appends (x, y) to g when it moved far enough horizontally or landed
// on a different row. It reports whether a point was added.
func (r *Recorder) Extend(g *Gesture, x, y float64) bool {
	if g == nil || g.frozen || len(g.points) == 0 {
		return false
	}
	p := r.point(x, y)
	last := g.Last()
	if math.Abs(p.X-last.X) > r.thresholdX || math.Abs(p.Y-last.Y) > r.thresholdY {
		g.points = append(g.points, p)
		return true
	}
	return false
}

// End freezes g and returns its points.
func (r *Recorder) End(g *Gesture) []Point {
	if g == nil {
		return nil
	}
	g.frozen = true
	return g.Points()
}
