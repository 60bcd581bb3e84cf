package painting

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// Pixmap contains a collection of pixels
type Pixmap struct {
	Data        []byte
	Width       int
	Height      int
	BytePerLine int
	PixFormat   PixelFormat
}

// NewPixmap creates a zeroed RGBA32 pixmap
func NewPixmap(width int, height int) *Pixmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	bytePerLine := width * GetPixelSize(RGBA32)
	return &Pixmap{
		Data:        make([]byte, bytePerLine*height),
		Width:       width,
		Height:      height,
		BytePerLine: bytePerLine,
		PixFormat:   RGBA32,
	}
}

// NewPixmapFromData wraps tightly packed RGBA32 rows
func NewPixmapFromData(width int, height int, data []byte) (*Pixmap, error) {
	bytePerLine := width * GetPixelSize(RGBA32)
	if len(data) != bytePerLine*height {
		return nil, errors.New("Pixel data does not match the pixmap size")
	}
	return &Pixmap{
		Data:        data,
		Width:       width,
		Height:      height,
		BytePerLine: bytePerLine,
		PixFormat:   RGBA32,
	}, nil
}

// PixmapFromImage converts any image into an RGBA32 pixmap without
// premultiplying alpha.
func PixmapFromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	return &Pixmap{
		Data:        nrgba.Pix,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		BytePerLine: nrgba.Stride,
		PixFormat:   RGBA32,
	}
}

// Bounds returns the pixmap rectangle anchored at the origin
func (pixmap *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, pixmap.Width, pixmap.Height)
}

// ToImage returns a copy of the pixmap as an image.NRGBA
func (pixmap *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(pixmap.Bounds())
	rowSize := pixmap.Width * GetPixelSize(pixmap.PixFormat)
	for y := 0; y < pixmap.Height; y++ {
		src := pixmap.Data[y*pixmap.BytePerLine : y*pixmap.BytePerLine+rowSize]
		dst := img.Pix[y*img.Stride : y*img.Stride+rowSize]
		copy(dst, src)
		if pixmap.PixFormat == BGRA32 {
			swapRedBlue(dst)
		}
	}
	return img
}

// At returns the colour at x, y or a transparent colour outside the pixmap
func (pixmap *Pixmap) At(x int, y int) color.NRGBA {
	if !(image.Point{x, y}).In(pixmap.Bounds()) {
		return color.NRGBA{}
	}
	offset := y*pixmap.BytePerLine + x*GetPixelSize(pixmap.PixFormat)
	pix := pixmap.Data[offset : offset+4]
	if pixmap.PixFormat == BGRA32 {
		return color.NRGBA{R: pix[2], G: pix[1], B: pix[0], A: pix[3]}
	}
	return color.NRGBA{R: pix[0], G: pix[1], B: pix[2], A: pix[3]}
}

// Fill sets every pixel to c
func (pixmap *Pixmap) Fill(c color.NRGBA) {
	pix := []byte{c.R, c.G, c.B, c.A}
	if pixmap.PixFormat == BGRA32 {
		swapRedBlue(pix)
	}
	pixSize := GetPixelSize(pixmap.PixFormat)
	for y := 0; y < pixmap.Height; y++ {
		row := pixmap.Data[y*pixmap.BytePerLine : y*pixmap.BytePerLine+pixmap.Width*pixSize]
		for x := 0; x < len(row); x += pixSize {
			copy(row[x:x+pixSize], pix)
		}
	}
}

// SubPixmap copies the part of the pixmap inside rect into a new tightly
// packed pixmap. The rectangle is clipped to the pixmap bounds.
func (pixmap *Pixmap) SubPixmap(rect image.Rectangle) *Pixmap {
	r := rect.Intersect(pixmap.Bounds())
	pixSize := GetPixelSize(pixmap.PixFormat)
	sub := &Pixmap{
		Data:        make([]byte, r.Dx()*r.Dy()*pixSize),
		Width:       r.Dx(),
		Height:      r.Dy(),
		BytePerLine: r.Dx() * pixSize,
		PixFormat:   pixmap.PixFormat,
	}

	rowSize := sub.BytePerLine
	for rowNum := 0; rowNum < sub.Height; rowNum++ {
		srcOffset := (r.Min.Y+rowNum)*pixmap.BytePerLine + r.Min.X*pixSize
		dstOffset := rowNum * sub.BytePerLine
		copy(sub.Data[dstOffset:dstOffset+rowSize], pixmap.Data[srcOffset:srcOffset+rowSize])
	}
	return sub
}

// Tight returns the pixel rows without line padding
func (pixmap *Pixmap) Tight() []byte {
	rowSize := pixmap.Width * GetPixelSize(pixmap.PixFormat)
	if pixmap.BytePerLine == rowSize {
		return pixmap.Data[:rowSize*pixmap.Height]
	}
	return pixmap.SubPixmap(pixmap.Bounds()).Data
}

func swapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
