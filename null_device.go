package painting

import (
	"image"
	"image/color"
)

type nullDevice struct {
}

type nullTexture struct {
	size image.Point
}

func (texture nullTexture) Size() image.Point {
	return texture.size
}

type nullProgram string

func (program nullProgram) Name() string {
	return string(program)
}

// NullDevice returns a device that accepts every call but never
// completes a framebuffer, so nothing is ever drawn or read back.
func NullDevice() Device {
	return nullDevice{}
}

func (nullDevice) NewTexture(width int, height int, pix []byte) (Texture, error) {
	return nullTexture{image.Point{width, height}}, nil
}

func (nullDevice) DeleteTexture(texture Texture) {
}

func (nullDevice) UploadRegion(texture Texture, rect image.Rectangle, pix []byte) {
}

func (nullDevice) NewFramebuffer() (Framebuffer, error) {
	return struct{}{}, nil
}

func (nullDevice) DeleteFramebuffer(framebuffer Framebuffer) {
}

func (nullDevice) BindFramebuffer(framebuffer Framebuffer, target Texture) FramebufferStatus {
	return FramebufferUnsupported
}

func (nullDevice) UnbindFramebuffer() {
}

func (nullDevice) Clear(c color.NRGBA) {
}

func (nullDevice) Draw(call DrawCall) {
}

func (nullDevice) ReadPixels(rect image.Rectangle) []byte {
	return nil
}

func (nullDevice) CreateProgram(name string) (Program, error) {
	return nullProgram(name), nil
}

func (nullDevice) DeleteProgram(program Program) {
}
