package painting

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Brush describes the stamp used to render a stroke. Mosaic and Light
// select mutually exclusive shader variants; Mosaic wins if both are set.
type Brush struct {
	// Stamp holds the stamp shape in its alpha channel
	Stamp *Pixmap
	// Size is the stamp diameter in canvas pixels
	Size float64
	// Spacing is the distance between stamps as a fraction of Size
	Spacing float64
	Mosaic  bool
	Light   bool
}

type brushKind int

const (
	plainBrush brushKind = iota
	lightBrush
	mosaicBrush
)

func (brush *Brush) kind() brushKind {
	switch {
	case brush == nil:
		return plainBrush
	case brush.Mosaic:
		return mosaicBrush
	case brush.Light:
		return lightBrush
	default:
		return plainBrush
	}
}

func (brush *Brush) brushShader() string {
	switch brush.kind() {
	case mosaicBrush:
		return ShaderMosaicBrush
	case lightBrush:
		return ShaderBrushLight
	default:
		return ShaderBrush
	}
}

func (brush *Brush) compositeShader() string {
	switch brush.kind() {
	case mosaicBrush:
		return ShaderCompositeWithMosaic
	case lightBrush:
		return ShaderCompositeWithMaskLight
	default:
		return ShaderCompositeWithMask
	}
}

func (brush *Brush) blitShader() string {
	switch brush.kind() {
	case mosaicBrush:
		return ShaderBlitWithMosaic
	case lightBrush:
		return ShaderBlitWithMaskLight
	default:
		return ShaderBlitWithMask
	}
}

// diameter returns the stamp side in whole pixels
func (brush *Brush) diameter() int {
	d := int(math.Ceil(brush.Size))
	if d < 1 {
		d = 1
	}
	return d
}

// stampPixmap returns the stamp scaled to the brush diameter. A missing
// stamp gives a hard round tip.
func (brush *Brush) stampPixmap() *Pixmap {
	d := brush.diameter()
	if brush.Stamp == nil {
		return roundStamp(d)
	}
	if brush.Stamp.Width == d && brush.Stamp.Height == d && brush.Stamp.PixFormat == RGBA32 {
		return brush.Stamp
	}

	dst := image.NewNRGBA(image.Rect(0, 0, d, d))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), brush.Stamp.ToImage(), brush.Stamp.Bounds(), xdraw.Src, nil)
	return PixmapFromImage(dst)
}

func roundStamp(d int) *Pixmap {
	stamp := NewPixmap(d, d)
	r := float64(d) / 2
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				offset := y*stamp.BytePerLine + x*4
				copy(stamp.Data[offset:offset+4], []byte{0xFF, 0xFF, 0xFF, 0xFF})
			}
		}
	}
	return stamp
}
