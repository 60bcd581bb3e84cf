package painting

import (
	"image"
	"image/color"
)

// Texture is a device-resident RGBA32 image
type Texture interface {
	Size() image.Point
}

// Framebuffer is a render target that draws into an attached texture
type Framebuffer interface{}

// Program is a compiled shader from the named set
type Program interface {
	Name() string
}

// FramebufferStatus is the completeness of a bound framebuffer
type FramebufferStatus int

const (
	// FramebufferComplete means draws and read-backs may proceed
	FramebufferComplete FramebufferStatus = iota
	// FramebufferIncompleteAttachment means the attached texture is unusable
	FramebufferIncompleteAttachment
	// FramebufferUnsupported means the device cannot render at all
	FramebufferUnsupported
)

func (status FramebufferStatus) String() string {
	switch status {
	case FramebufferComplete:
		return "complete"
	case FramebufferIncompleteAttachment:
		return "incomplete attachment"
	default:
		return "unsupported"
	}
}

// BlendFactor scales a source or destination term of the blend equation
type BlendFactor int

const (
	// Zero factor
	Zero BlendFactor = iota
	// One factor
	One
	// SrcAlphaFactor scales by the fragment alpha
	SrcAlphaFactor
	// OneMinusSrcAlpha scales by one minus the fragment alpha
	OneMinusSrcAlpha
)

// BlendFunc configures out = src*Src + dst*Dst separately for colour and
// alpha channels.
type BlendFunc struct {
	SrcRGB   BlendFactor
	DstRGB   BlendFactor
	SrcAlpha BlendFactor
	DstAlpha BlendFactor
}

// Blend modes used by the engine.
var (
	// BlendComposite is source-over for colour with additive alpha
	BlendComposite = BlendFunc{SrcAlphaFactor, OneMinusSrcAlpha, SrcAlphaFactor, One}
	// BlendPremultiplied is the alpha-over used for blits and brush masks
	BlendPremultiplied = BlendFunc{One, OneMinusSrcAlpha, One, OneMinusSrcAlpha}
	// BlendCopy replaces the destination, used for read-back
	BlendCopy = BlendFunc{One, Zero, One, Zero}
)

// Quad is one textured rectangle of a draw call. Alpha scales the
// sampled value.
type Quad struct {
	Rect  image.Rectangle
	Alpha float64
}

// DrawCall is a single draw into the bound framebuffer. Textures are the
// sampler slots (slot 0: texture or mask, slot 1: mask). Offset
// translates the geometry, and a nil Quads covers the whole source
// texture in slot 0.
type DrawCall struct {
	Program  Program
	Textures [2]Texture
	Color    color.NRGBA
	Offset   image.Point
	Blend    BlendFunc
	Quads    []Quad
}

// Device is the GPU boundary used by the engine. It is driven only from
// the render context and is not safe for concurrent use.
type Device interface {
	// NewTexture creates a texture; nil pix creates a blank one
	NewTexture(width int, height int, pix []byte) (Texture, error)
	DeleteTexture(texture Texture)
	// UploadRegion replaces the texels inside rect with tightly packed pix
	UploadRegion(texture Texture, rect image.Rectangle, pix []byte)

	NewFramebuffer() (Framebuffer, error)
	DeleteFramebuffer(framebuffer Framebuffer)
	BindFramebuffer(framebuffer Framebuffer, target Texture) FramebufferStatus
	UnbindFramebuffer()

	Clear(c color.NRGBA)
	Draw(call DrawCall)
	// ReadPixels reads the bound target inside rect as tightly packed RGBA32
	ReadPixels(rect image.Rectangle) []byte

	CreateProgram(name string) (Program, error)
	DeleteProgram(program Program)
}
