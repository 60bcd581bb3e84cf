package painting

import (
	"fmt"
	"image"
	"image/color"
)

type softTexture struct {
	width   int
	height  int
	pix     []byte
	deleted bool
}

func (texture *softTexture) Size() image.Point {
	return image.Point{texture.width, texture.height}
}

func (texture *softTexture) live() bool {
	return texture != nil && !texture.deleted && texture.width > 0 && texture.height > 0
}

func (texture *softTexture) bounds() image.Rectangle {
	return image.Rect(0, 0, texture.width, texture.height)
}

func (texture *softTexture) texel(x int, y int) rgba {
	if !texture.live() || x < 0 || y < 0 || x >= texture.width || y >= texture.height {
		return rgba{}
	}
	offset := (y*texture.width + x) * 4
	pix := texture.pix[offset : offset+4]
	return rgba{int(pix[0]), int(pix[1]), int(pix[2]), int(pix[3])}
}

func (texture *softTexture) setTexel(x int, y int, c rgba) {
	offset := (y*texture.width + x) * 4
	pix := texture.pix[offset : offset+4]
	pix[0], pix[1], pix[2], pix[3] = clampByte(c.r), clampByte(c.g), clampByte(c.b), clampByte(c.a)
}

type softFramebuffer struct {
	deleted bool
}

type softProgram struct {
	name    string
	kernel  kernel
	deleted bool
}

func (program *softProgram) Name() string {
	return program.name
}

// SoftwareDevice renders the named shader set on the CPU. Textures hold
// straight (non-premultiplied) RGBA32 pixels and blending uses 8-bit
// integer arithmetic.
type SoftwareDevice struct {
	target *softTexture
	live   int
}

// NewSoftwareDevice creates a device with nothing allocated
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// LiveResources returns the number of textures, framebuffers and
// programs that have not been deleted yet.
func (device *SoftwareDevice) LiveResources() int {
	return device.live
}

// NewTexture implements Device
func (device *SoftwareDevice) NewTexture(width int, height int, pix []byte) (Texture, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	size := width * height * 4
	texture := &softTexture{
		width:  width,
		height: height,
		pix:    make([]byte, size),
	}
	if pix != nil {
		if len(pix) != size {
			return nil, fmt.Errorf("texture data has %d bytes, expected %d", len(pix), size)
		}
		copy(texture.pix, pix)
	}
	device.live++
	return texture, nil
}

// DeleteTexture implements Device
func (device *SoftwareDevice) DeleteTexture(texture Texture) {
	t, ok := texture.(*softTexture)
	if !ok || t.deleted {
		return
	}
	t.deleted = true
	t.pix = nil
	if device.target == t {
		device.target = nil
	}
	device.live--
}

// UploadRegion implements Device
func (device *SoftwareDevice) UploadRegion(texture Texture, rect image.Rectangle, pix []byte) {
	t, ok := texture.(*softTexture)
	if !ok || !t.live() || len(pix) < rect.Dx()*rect.Dy()*4 {
		return
	}

	clipped := rect.Intersect(t.bounds())
	rowSize := clipped.Dx() * 4
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		srcOffset := ((y-rect.Min.Y)*rect.Dx() + clipped.Min.X - rect.Min.X) * 4
		dstOffset := (y*t.width + clipped.Min.X) * 4
		copy(t.pix[dstOffset:dstOffset+rowSize], pix[srcOffset:srcOffset+rowSize])
	}
}

// NewFramebuffer implements Device
func (device *SoftwareDevice) NewFramebuffer() (Framebuffer, error) {
	device.live++
	return &softFramebuffer{}, nil
}

// DeleteFramebuffer implements Device
func (device *SoftwareDevice) DeleteFramebuffer(framebuffer Framebuffer) {
	fb, ok := framebuffer.(*softFramebuffer)
	if !ok || fb.deleted {
		return
	}
	fb.deleted = true
	device.live--
}

// BindFramebuffer implements Device. The framebuffer is complete when
// the attached texture is live and not empty.
func (device *SoftwareDevice) BindFramebuffer(framebuffer Framebuffer, target Texture) FramebufferStatus {
	device.target = nil

	fb, ok := framebuffer.(*softFramebuffer)
	if !ok || fb.deleted {
		return FramebufferUnsupported
	}
	t, ok := target.(*softTexture)
	if !ok || !t.live() {
		return FramebufferIncompleteAttachment
	}
	device.target = t
	return FramebufferComplete
}

// UnbindFramebuffer implements Device
func (device *SoftwareDevice) UnbindFramebuffer() {
	device.target = nil
}

// Clear implements Device
func (device *SoftwareDevice) Clear(c color.NRGBA) {
	if device.target == nil {
		return
	}
	pix := device.target.pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// ReadPixels implements Device. Pixels outside the target read as
// transparent.
func (device *SoftwareDevice) ReadPixels(rect image.Rectangle) []byte {
	if device.target == nil || rect.Empty() {
		return nil
	}

	out := make([]byte, rect.Dx()*rect.Dy()*4)
	clipped := rect.Intersect(device.target.bounds())
	rowSize := clipped.Dx() * 4
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		srcOffset := (y*device.target.width + clipped.Min.X) * 4
		dstOffset := ((y-rect.Min.Y)*rect.Dx() + clipped.Min.X - rect.Min.X) * 4
		copy(out[dstOffset:dstOffset+rowSize], device.target.pix[srcOffset:srcOffset+rowSize])
	}
	return out
}

// CreateProgram implements Device
func (device *SoftwareDevice) CreateProgram(name string) (Program, error) {
	k, ok := kernels[name]
	if !ok {
		return nil, fmt.Errorf("unknown program %q", name)
	}
	device.live++
	return &softProgram{name: name, kernel: k}, nil
}

// DeleteProgram implements Device
func (device *SoftwareDevice) DeleteProgram(program Program) {
	p, ok := program.(*softProgram)
	if !ok || p.deleted {
		return
	}
	p.deleted = true
	device.live--
}

// Draw implements Device. Quads are rasterized one after another so
// overlapping stamps accumulate through the blend equation.
func (device *SoftwareDevice) Draw(call DrawCall) {
	target := device.target
	program, ok := call.Program.(*softProgram)
	if target == nil || !ok || program.deleted {
		return
	}

	source, _ := call.Textures[0].(*softTexture)
	mask, _ := call.Textures[1].(*softTexture)

	quads := call.Quads
	if quads == nil {
		if !source.live() {
			return
		}
		quads = []Quad{{Rect: source.bounds(), Alpha: 1}}
	}

	state := &drawState{
		call:   call,
		source: source,
		mask:   mask,
		target: target,
	}
	if program.kernel.needsBackdrop {
		state.backdrop = &softTexture{
			width:  target.width,
			height: target.height,
			pix:    append([]byte(nil), target.pix...),
		}
	}

	for _, quad := range quads {
		rect := quad.Rect.Add(call.Offset)
		clipped := rect.Intersect(target.bounds())
		if clipped.Empty() {
			continue
		}
		for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
			for x := clipped.Min.X; x < clipped.Max.X; x++ {
				frag := fragment{
					x:     x,
					y:     y,
					u:     sampleCoord(x-rect.Min.X, rect.Dx(), source, true),
					v:     sampleCoord(y-rect.Min.Y, rect.Dy(), source, false),
					alpha: quad.Alpha,
				}
				src := program.kernel.shade(state, frag)
				target.setTexel(x, y, blend(src, target.texel(x, y), call.Blend))
			}
		}
	}
}

// sampleCoord maps a quad-relative pixel to the nearest texel of source
func sampleCoord(offset int, extent int, source *softTexture, horizontal bool) int {
	if !source.live() || extent <= 0 {
		return offset
	}
	size := source.height
	if horizontal {
		size = source.width
	}
	if size == extent {
		return offset
	}
	return offset * size / extent
}

type rgba struct {
	r, g, b, a int
}

func clampByte(v int) byte {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return byte(v)
	}
}

func blendFactor(factor BlendFactor, srcAlpha int) int {
	switch factor {
	case One:
		return 255
	case SrcAlphaFactor:
		return srcAlpha
	case OneMinusSrcAlpha:
		return 255 - srcAlpha
	default:
		return 0
	}
}

func blendChannel(s int, d int, f int, g int) int {
	v := (s*f + d*g + 127) / 255
	if v > 255 {
		v = 255
	}
	return v
}

// blend evaluates out = src*f + dst*g per channel
func blend(src rgba, dst rgba, fn BlendFunc) rgba {
	sa := src.a
	fRGB, gRGB := blendFactor(fn.SrcRGB, sa), blendFactor(fn.DstRGB, sa)
	fA, gA := blendFactor(fn.SrcAlpha, sa), blendFactor(fn.DstAlpha, sa)
	return rgba{
		r: blendChannel(src.r, dst.r, fRGB, gRGB),
		g: blendChannel(src.g, dst.g, fRGB, gRGB),
		b: blendChannel(src.b, dst.b, fRGB, gRGB),
		a: blendChannel(src.a, dst.a, fA, gA),
	}
}
