package painting

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendEquations(t *testing.T) {
	white := rgba{255, 255, 255, 255}

	assert.Equal(t, rgba{255, 0, 0, 255}, blend(rgba{255, 0, 0, 255}, white, BlendComposite))
	assert.Equal(t, white, blend(rgba{255, 0, 0, 0}, white, BlendComposite))
	assert.Equal(t, rgba{127, 127, 255, 255}, blend(rgba{0, 0, 255, 128}, white, BlendComposite))

	assert.Equal(t, rgba{10, 20, 30, 40}, blend(rgba{10, 20, 30, 40}, white, BlendCopy))
	assert.Equal(t, rgba{128, 128, 128, 128}, blend(rgba{128, 128, 128, 128}, rgba{}, BlendPremultiplied))
}

func TestSoftwareDeviceFramebufferCompleteness(t *testing.T) {
	device := NewSoftwareDevice()

	fb, err := device.NewFramebuffer()
	require.NoError(t, err)
	texture, err := device.NewTexture(4, 4, nil)
	require.NoError(t, err)
	empty, err := device.NewTexture(0, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, FramebufferComplete, device.BindFramebuffer(fb, texture))
	assert.Equal(t, FramebufferIncompleteAttachment, device.BindFramebuffer(fb, empty))
	assert.Equal(t, FramebufferIncompleteAttachment, device.BindFramebuffer(fb, nil))

	device.DeleteTexture(texture)
	assert.Equal(t, FramebufferIncompleteAttachment, device.BindFramebuffer(fb, texture))
	assert.Nil(t, device.ReadPixels(image.Rect(0, 0, 1, 1)))

	device.DeleteFramebuffer(fb)
	assert.Equal(t, FramebufferUnsupported, device.BindFramebuffer(fb, empty))

	device.DeleteTexture(empty)
	device.DeleteTexture(empty)
	assert.Equal(t, 0, device.LiveResources())
}

func TestSoftwareDeviceUploadAndRead(t *testing.T) {
	device := NewSoftwareDevice()
	fb, _ := device.NewFramebuffer()
	texture, err := device.NewTexture(4, 4, nil)
	require.NoError(t, err)

	region := image.Rect(1, 1, 3, 3)
	pix := make([]byte, region.Dx()*region.Dy()*4)
	for i := range pix {
		pix[i] = 0xAB
	}
	device.UploadRegion(texture, region, pix)

	require.Equal(t, FramebufferComplete, device.BindFramebuffer(fb, texture))
	assert.Equal(t, pix, device.ReadPixels(region))

	outside := device.ReadPixels(image.Rect(3, 3, 5, 5))
	assert.Len(t, outside, 16)
	assert.Equal(t, make([]byte, 16), outside)
}

func TestSoftwareDeviceBlitWithOffset(t *testing.T) {
	device := NewSoftwareDevice()
	fb, _ := device.NewFramebuffer()
	blit, err := device.CreateProgram(ShaderBlit)
	require.NoError(t, err)

	src := NewPixmap(4, 4)
	src.Fill(color.NRGBA{G: 0xFF, A: 0xFF})
	source, _ := device.NewTexture(4, 4, src.Data)
	target, _ := device.NewTexture(2, 2, nil)

	require.Equal(t, FramebufferComplete, device.BindFramebuffer(fb, target))
	device.Draw(DrawCall{
		Program:  blit,
		Textures: [2]Texture{source},
		Offset:   image.Point{-3, -3},
		Blend:    BlendCopy,
	})
	pix := device.ReadPixels(image.Rect(0, 0, 2, 2))
	assert.Equal(t, []byte{0, 0xFF, 0, 0xFF}, pix[0:4])
	assert.Equal(t, []byte{0, 0, 0, 0}, pix[4:8])
}

func TestSoftwareDeviceRejectsUnknownProgram(t *testing.T) {
	device := NewSoftwareDevice()
	_, err := device.CreateProgram("sepia")
	assert.Error(t, err)

	shaders := SetupShaders(device)
	assert.Len(t, shaders, len(ShaderNames))
	shaders.release(device)
	assert.Equal(t, 0, device.LiveResources())
}

func TestSoftwareDeviceStampsAccumulate(t *testing.T) {
	device := NewSoftwareDevice()
	fb, _ := device.NewFramebuffer()
	brush, _ := device.CreateProgram(ShaderBrush)

	stamp := NewPixmap(2, 2)
	stamp.Fill(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	stampTexture, _ := device.NewTexture(2, 2, stamp.Data)
	mask, _ := device.NewTexture(4, 4, nil)

	require.Equal(t, FramebufferComplete, device.BindFramebuffer(fb, mask))
	device.Draw(DrawCall{
		Program:  brush,
		Textures: [2]Texture{stampTexture},
		Blend:    BlendPremultiplied,
		Quads: []Quad{
			{Rect: image.Rect(0, 0, 2, 2), Alpha: 0.5},
			{Rect: image.Rect(1, 1, 3, 3), Alpha: 0.5},
		},
	})

	pix := device.ReadPixels(image.Rect(0, 0, 4, 4))
	alphaAt := func(x, y int) byte { return pix[(y*4+x)*4+3] }
	assert.Equal(t, byte(128), alphaAt(0, 0))
	// 128 + 128*(255-128)/255
	assert.Equal(t, byte(192), alphaAt(1, 1))
	assert.Equal(t, byte(0), alphaAt(3, 3))
}
