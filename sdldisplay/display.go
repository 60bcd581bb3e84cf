// Package sdldisplay shows a painting in an SDL window.
package sdldisplay

import (
	"errors"
	"image"
	"sync"

	"github.com/rmcsoft/painting"
	"github.com/veandco/go-sdl2/sdl"
)

var mutexSdlInit = sync.Mutex{}
var sdlInited = false

func initSdl() error {
	mutexSdlInit.Lock()
	defer mutexSdlInit.Unlock()

	if !sdlInited {
		if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
			return err
		}
		sdlInited = true
	}
	return nil
}

func pixelFormatToSDL(pixelFormat painting.PixelFormat) (uint32, error) {
	switch pixelFormat {
	case painting.RGBA32:
		return sdl.PIXELFORMAT_ABGR8888, nil
	case painting.BGRA32:
		return sdl.PIXELFORMAT_ARGB8888, nil
	default:
		return 0, errors.New("Unsupported pixel format")
	}
}

// Display keeps the canvas in a streaming texture so that delta frames
// only upload the regions that changed.
type Display struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	width    int
	height   int
}

// New creates a window of the canvas size
func New(width int, height int) (*Display, error) {
	if err := initSdl(); err != nil {
		return nil, err
	}

	window, renderer, err := sdl.CreateWindowAndRenderer(int32(width), int32(height), 0)
	if err != nil {
		return nil, err
	}

	sdlPixFormat, _ := pixelFormatToSDL(painting.RGBA32)
	texture, err := renderer.CreateTexture(sdlPixFormat, sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, err
	}

	return &Display{
		window:   window,
		renderer: renderer,
		texture:  texture,
		width:    width,
		height:   height,
	}, nil
}

// Window returns the SDL window
func (d *Display) Window() *sdl.Window {
	return d.window
}

// Begin implements painting.Display
func (d *Display) Begin() error {
	return nil
}

// Clear implements painting.Display
func (d *Display) Clear(rect image.Rectangle) error {
	rect = rect.Intersect(image.Rect(0, 0, d.width, d.height))
	if rect.Empty() {
		return nil
	}

	texturePixels, textureBytePerLine, err := d.texture.Lock(toSDLRect(rect))
	if err != nil {
		return err
	}
	defer d.texture.Unlock()

	rowSize := rect.Dx() * 4
	for rowNum := 0; rowNum < rect.Dy(); rowNum++ {
		row := texturePixels[rowNum*textureBytePerLine : rowNum*textureBytePerLine+rowSize]
		for i := range row {
			row[i] = 0
		}
	}
	return nil
}

// DrawPixmap implements painting.Display
func (d *Display) DrawPixmap(top image.Point, pixmap *painting.Pixmap) error {
	if pixmap.PixFormat != painting.RGBA32 {
		return errors.New("Pixmap has invalid pixel format")
	}

	rect := image.Rect(top.X, top.Y, top.X+pixmap.Width, top.Y+pixmap.Height)
	clipped := rect.Intersect(image.Rect(0, 0, d.width, d.height))
	if clipped.Empty() {
		return nil
	}

	texturePixels, textureBytePerLine, err := d.texture.Lock(toSDLRect(clipped))
	if err != nil {
		return err
	}
	defer d.texture.Unlock()

	pixSize := painting.GetPixelSize(pixmap.PixFormat)
	rowSize := clipped.Dx() * pixSize
	for rowNum := 0; rowNum < clipped.Dy(); rowNum++ {
		pixmapOffset := (clipped.Min.Y-rect.Min.Y+rowNum)*pixmap.BytePerLine + (clipped.Min.X-rect.Min.X)*pixSize
		pixmapRow := pixmap.Data[pixmapOffset : pixmapOffset+rowSize]
		textureOffset := rowNum * textureBytePerLine
		copy(texturePixels[textureOffset:textureOffset+rowSize], pixmapRow)
	}
	return nil
}

// DrawPackedPixmap implements painting.Display
func (d *Display) DrawPackedPixmap(top image.Point, packedPixmap *painting.PackedPixmap) error {
	pixmap, err := packedPixmap.Unpack()
	if err != nil {
		return err
	}
	return d.DrawPixmap(top, pixmap)
}

// End implements painting.Display
func (d *Display) End() error {
	if err := d.renderer.Clear(); err != nil {
		return err
	}
	if err := d.renderer.Copy(d.texture, nil, nil); err != nil {
		return err
	}
	d.renderer.Present()
	return nil
}

// Close destroys the window
func (d *Display) Close() {
	d.texture.Destroy()
	d.renderer.Destroy()
	d.window.Destroy()
}

func toSDLRect(rect image.Rectangle) *sdl.Rect {
	return &sdl.Rect{
		X: int32(rect.Min.X),
		Y: int32(rect.Min.Y),
		W: int32(rect.Dx()),
		H: int32(rect.Dy()),
	}
}
