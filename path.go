package painting

import (
	"image"
	"image/color"
	"math"
)

// Point is a path sample. Size scales the brush diameter and Alpha the
// stamp opacity; zero values mean 1.
type Point struct {
	X     float64
	Y     float64
	Size  float64
	Alpha float64
}

// Path is a run of points of one stroke segment
type Path struct {
	Points []Point
	Color  color.NRGBA
}

// NewPath creates a path of unit-weight points
func NewPath(c color.NRGBA, points ...image.Point) *Path {
	path := &Path{Color: c}
	for _, p := range points {
		path.Points = append(path.Points, Point{X: float64(p.X), Y: float64(p.Y)})
	}
	return path
}

func (p Point) size() float64 {
	if p.Size <= 0 {
		return 1
	}
	return p.Size
}

func (p Point) alpha() float64 {
	if p.Alpha <= 0 {
		return 1
	}
	return math.Min(p.Alpha, 1)
}

// RenderState carries stamping progress across the paint calls of one
// stroke so that stamps stay evenly spaced at segment joins.
type RenderState struct {
	hasLast   bool
	last      Point
	remainder float64
	count     int
}

// Reset forgets the previous stroke
func (state *RenderState) Reset() {
	*state = RenderState{}
}

// Count returns the number of stamps rendered in the current stroke
func (state *RenderState) Count() int {
	return state.count
}
