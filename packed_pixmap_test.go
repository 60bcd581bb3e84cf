package painting

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripedPixmap() *Pixmap {
	pixmap := NewPixmap(300, 4)
	pixmap.Fill(color.NRGBA{R: 0xFF, A: 0xFF})
	// a run longer than one count byte and a single odd pixel per row
	for y := 0; y < pixmap.Height; y++ {
		offset := y*pixmap.BytePerLine + (10+y)*4
		copy(pixmap.Data[offset:offset+4], []byte{0, 0, 0xFF, 0x80})
	}
	return pixmap
}

func TestPackPixmapUnpack(t *testing.T) {
	pixmap := stripedPixmap()

	packed := PackPixmap(pixmap)
	assert.Less(t, len(packed.Data), len(pixmap.Data))

	unpacked, err := packed.Unpack()
	require.NoError(t, err)
	assert.Equal(t, pixmap.Data, unpacked.Data)
	assert.Equal(t, pixmap.Bounds(), unpacked.Bounds())
}

func TestPackedPixmapFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "stripes.ppixmap")
	pixmap := stripedPixmap()

	require.NoError(t, PackPixmap(pixmap).Save(fileName))
	packed, err := LoadPackedPixmap(fileName)
	require.NoError(t, err)

	unpacked, err := packed.Unpack()
	require.NoError(t, err)
	assert.Equal(t, pixmap.Data, unpacked.Data)
}

func TestReadPackedPixmapRejectsBrokenRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePackedPixmap(&buf, &PackedPixmap{
		Width:     2,
		Height:    1,
		PixFormat: RGBA32,
		Data:      []byte{1, 1, 2, 3, 4, 0},
	}))

	_, err := ReadPackedPixmap(&buf)
	assert.Error(t, err)

	_, err = ReadPackedPixmap(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)
}

func TestPixmapSubPixmap(t *testing.T) {
	pixmap := stripedPixmap()

	sub := pixmap.SubPixmap(image.Rect(8, 1, 14, 3))
	assert.Equal(t, 6, sub.Width)
	assert.Equal(t, 2, sub.Height)
	assert.Equal(t, color.NRGBA{B: 0xFF, A: 0x80}, sub.At(3, 0))
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 0xFF}, sub.At(0, 0))

	clipped := pixmap.SubPixmap(image.Rect(-5, -5, 2, 2))
	assert.Equal(t, image.Rect(0, 0, 2, 2), clipped.Bounds())
}

func TestPixmapImageConversion(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	pixmap := PixmapFromImage(img)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 40}, pixmap.At(1, 1))
	assert.Equal(t, img.Pix, pixmap.ToImage().Pix)

	pixmap.PixFormat = BGRA32
	assert.Equal(t, color.NRGBA{R: 30, G: 20, B: 10, A: 40}, pixmap.At(1, 1))
}
