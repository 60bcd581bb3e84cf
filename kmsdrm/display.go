//go:build linux

// Package kmsdrm shows a painting on a DRM dumb buffer without a window
// system.
package kmsdrm

import (
	"errors"
	"fmt"
	"image"
	"os"
	"syscall"

	drm "github.com/rmcsoft/godrm"
	"github.com/rmcsoft/godrm/mode"
	"github.com/rmcsoft/painting"
)

const (
	// XRGB8888 scanout
	scanoutFormat = painting.BGRA32
	pixSize       = 4
)

type framebuffer struct {
	handle      uint32
	id          uint32
	buf         []byte
	bytePerLine int
}

// Display draws frames into a CPU shadow of the viewport and flips
// between two dumb buffers on End. Only the damaged rows are copied.
type Display struct {
	card    *os.File
	modeset mode.Modeset

	viewport image.Rectangle
	screen   image.Rectangle
	shadow   *painting.Pixmap

	framebuffers        []*framebuffer
	frontFrameBufferNum int
	// damage of the frame just shown, which the other buffer lacks
	lastDamage image.Rectangle
	damage     image.Rectangle

	isActive bool
}

// New opens cardNum and places the canvas at viewport on the screen
func New(cardNum int, viewport image.Rectangle) (*Display, error) {
	card, err := drm.OpenCard(cardNum)
	if err != nil {
		return nil, err
	}

	if !drm.HasDumbBuffer(card) {
		card.Close()
		return nil, fmt.Errorf("drm device %v does not support dumb buffers", cardNum)
	}

	simpleMSet, err := mode.NewSimpleModeset(card)
	if err != nil {
		card.Close()
		return nil, err
	}

	if len(simpleMSet.Modesets) == 0 {
		card.Close()
		return nil, errors.New("Modesets is empty")
	}

	d := &Display{
		card:     card,
		modeset:  simpleMSet.Modesets[0],
		viewport: viewport,
	}
	d.screen = image.Rect(0, 0, int(d.modeset.Width), int(d.modeset.Height))
	d.shadow = painting.NewPixmap(viewport.Dx(), viewport.Dy())
	d.shadow.PixFormat = scanoutFormat

	for i := 0; i < 2; i++ {
		fb, err := d.createFramebuffer()
		if err != nil {
			d.Close()
			return nil, err
		}
		d.framebuffers = append(d.framebuffers, fb)
	}
	return d, nil
}

// Begin implements painting.Display
func (d *Display) Begin() error {
	if d.isActive {
		return errors.New("KMSDRM display is already active")
	}

	d.isActive = true
	return nil
}

// Clear implements painting.Display
func (d *Display) Clear(rect image.Rectangle) error {
	if !d.isActive {
		return errors.New("KMSDRM display is not active")
	}

	r := rect.Intersect(d.shadow.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := d.shadow.Data[y*d.shadow.BytePerLine+r.Min.X*pixSize : y*d.shadow.BytePerLine+r.Max.X*pixSize]
		for i := range row {
			row[i] = 0
		}
	}
	d.damage = d.damage.Union(r)
	return nil
}

// DrawPixmap implements painting.Display
func (d *Display) DrawPixmap(top image.Point, pixmap *painting.Pixmap) error {
	if !d.isActive {
		return errors.New("KMSDRM display is not active")
	}

	if pixmap.PixFormat != painting.RGBA32 && pixmap.PixFormat != scanoutFormat {
		return errors.New("Pixmap has invalid pixel format")
	}

	rect := image.Rect(top.X, top.Y, top.X+pixmap.Width, top.Y+pixmap.Height)
	r := rect.Intersect(d.shadow.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		srcOffset := (y-rect.Min.Y)*pixmap.BytePerLine + (r.Min.X-rect.Min.X)*pixSize
		dstOffset := y*d.shadow.BytePerLine + r.Min.X*pixSize
		dst := d.shadow.Data[dstOffset : dstOffset+r.Dx()*pixSize]
		copy(dst, pixmap.Data[srcOffset:srcOffset+r.Dx()*pixSize])
		if pixmap.PixFormat != scanoutFormat {
			swapRedBlue(dst)
		}
	}
	d.damage = d.damage.Union(r)
	return nil
}

// DrawPackedPixmap implements painting.Display. Runs are decoded
// straight into the shadow buffer.
func (d *Display) DrawPackedPixmap(top image.Point, packedPixmap *painting.PackedPixmap) error {
	if !d.isActive {
		return errors.New("KMSDRM display is not active")
	}

	if packedPixmap.PixFormat != painting.RGBA32 && packedPixmap.PixFormat != scanoutFormat {
		return errors.New("PackedPixmap has invalid pixel format")
	}
	swap := packedPixmap.PixFormat != scanoutFormat

	rect := image.Rect(top.X, top.Y, top.X+packedPixmap.Width, top.Y+packedPixmap.Height)
	bounds := d.shadow.Bounds()
	data := packedPixmap.Data
	y := rect.Min.Y
	x := rect.Min.X
	var pix [pixSize]byte
	for pos := 0; pos < len(data); {
		pixCount := int(data[pos])
		pos++
		if pixCount == 0 {
			// Line finished
			y++
			x = rect.Min.X
			continue
		}
		if pos+pixSize > len(data) {
			return errors.New("Invalid packed data")
		}

		copy(pix[:], data[pos:pos+pixSize])
		pos += pixSize
		if swap {
			pix[0], pix[2] = pix[2], pix[0]
		}

		if y >= bounds.Min.Y && y < bounds.Max.Y {
			from := max(x, bounds.Min.X)
			to := min(x+pixCount, bounds.Max.X)
			rowOffset := y * d.shadow.BytePerLine
			for px := from; px < to; px++ {
				copy(d.shadow.Data[rowOffset+px*pixSize:rowOffset+(px+1)*pixSize], pix[:])
			}
		}
		x += pixCount
	}

	d.damage = d.damage.Union(rect.Intersect(bounds))
	return nil
}

// End implements painting.Display
func (d *Display) End() error {
	if !d.isActive {
		return errors.New("KMSDRM display is not active")
	}

	frontFrameBuffer := d.framebuffers[d.frontFrameBufferNum]
	d.present(frontFrameBuffer, d.damage.Union(d.lastDamage))

	err := mode.SetCrtc(d.card, d.modeset.Crtc, frontFrameBuffer.id,
		0, 0, &d.modeset.Conn, 1, &d.modeset.Mode)

	d.lastDamage = d.damage
	d.damage = image.Rectangle{}
	d.isActive = false
	d.frontFrameBufferNum = (d.frontFrameBufferNum + 1) % len(d.framebuffers)
	return err
}

// Close releases the dumb buffers and the card
func (d *Display) Close() {
	for _, fb := range d.framebuffers {
		d.destroyFramebuffer(fb)
	}
	d.framebuffers = nil
	if d.card != nil {
		d.card.Close()
		d.card = nil
	}
}

// present copies the damaged part of the shadow into fb
func (d *Display) present(fb *framebuffer, damage image.Rectangle) {
	target := damage.Add(d.viewport.Min).Intersect(d.screen)
	for y := target.Min.Y; y < target.Max.Y; y++ {
		sy := y - d.viewport.Min.Y
		srcOffset := sy*d.shadow.BytePerLine + (target.Min.X-d.viewport.Min.X)*pixSize
		dstOffset := y*fb.bytePerLine + target.Min.X*pixSize
		copy(fb.buf[dstOffset:dstOffset+target.Dx()*pixSize], d.shadow.Data[srcOffset:srcOffset+target.Dx()*pixSize])
	}
}

func (d *Display) createFramebuffer() (*framebuffer, error) {

	fb := &framebuffer{}
	var err error

	defer func() {
		if err != nil {
			d.destroyFramebuffer(fb)
		}
	}()

	width := d.modeset.Width
	height := d.modeset.Height
	bpp := painting.GetPixelSize(scanoutFormat) * 8
	depth := painting.GetPixelDepth(scanoutFormat)

	fbInfo, err := mode.CreateFB(d.card, uint16(width), uint16(height), uint32(bpp))
	if err != nil {
		return nil, err
	}

	fb.handle = fbInfo.Handle
	fb.id, err = mode.AddFB(d.card, uint16(width), uint16(height),
		uint8(depth), uint8(bpp), fbInfo.Pitch, fb.handle)
	if err != nil {
		return nil, err
	}

	offset, err := mode.MapDumb(d.card, fb.handle)
	if err != nil {
		return nil, err
	}

	fb.buf, err = syscall.Mmap(int(d.card.Fd()), int64(offset), int(fbInfo.Size),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	fb.bytePerLine = int(fbInfo.Pitch)

	return fb, err
}

func (d *Display) destroyFramebuffer(fb *framebuffer) {
	if fb != nil && d.card != nil {
		if fb.id != 0 {
			mode.RmFB(d.card, fb.id)
			fb.id = 0
		}

		if fb.handle != 0 {
			mode.DestroyDumb(d.card, fb.handle)
			fb.handle = 0
		}

		if fb.buf != nil {
			syscall.Munmap(fb.buf)
			fb.buf = nil
		}
	}
}

func swapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += pixSize {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
