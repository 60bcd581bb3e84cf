package painting

import (
	"image"
	"math"
)

// PathRenderer rasterizes stroke geometry into the bound framebuffer
// using the program and textures already set on call, and returns the
// pixel bounds it touched.
type PathRenderer interface {
	RenderPath(device Device, call DrawCall, path *Path, state *RenderState) image.Rectangle
}

// StampPathRenderer places one brush stamp every Spacing*Size pixels
// along the path.
type StampPathRenderer struct {
	Brush *Brush
}

// RenderPath implements PathRenderer
func (r *StampPathRenderer) RenderPath(device Device, call DrawCall, path *Path, state *RenderState) image.Rectangle {
	if path == nil || len(path.Points) == 0 {
		return image.Rectangle{}
	}

	size := 1.0
	spacing := 0.15
	if r.Brush != nil {
		size = math.Max(r.Brush.Size, 1)
		if r.Brush.Spacing > 0 {
			spacing = r.Brush.Spacing
		}
	}
	step := math.Max(size*spacing, 1)

	var quads []Quad
	stamp := func(p Point) {
		d := size * p.size()
		minX := math.Floor(p.X - d/2)
		minY := math.Floor(p.Y - d/2)
		quads = append(quads, Quad{
			Rect:  image.Rect(int(minX), int(minY), int(minX+math.Ceil(d)), int(minY+math.Ceil(d))),
			Alpha: p.alpha(),
		})
	}

	points := path.Points
	if !state.hasLast {
		stamp(points[0])
		state.last = points[0]
		state.hasLast = true
		state.remainder = step
		points = points[1:]
	}

	for _, p := range points {
		from := state.last
		dx := p.X - from.X
		dy := p.Y - from.Y
		length := math.Hypot(dx, dy)
		distance := state.remainder
		for ; distance <= length; distance += step {
			t := distance / length
			stamp(Point{
				X:     from.X + dx*t,
				Y:     from.Y + dy*t,
				Size:  lerp(from.size(), p.size(), t),
				Alpha: lerp(from.alpha(), p.alpha(), t),
			})
		}
		state.remainder = distance - length
		state.last = p
	}

	if len(quads) == 0 {
		return image.Rectangle{}
	}

	bounds := image.Rectangle{}
	for _, q := range quads {
		bounds = bounds.Union(q.Rect)
	}
	call.Quads = quads
	device.Draw(call)
	state.count += len(quads)
	return bounds
}

func lerp(a float64, b float64, t float64) float64 {
	return a + (b-a)*t
}
