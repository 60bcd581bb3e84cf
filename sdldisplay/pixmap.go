package sdldisplay

import (
	"github.com/rmcsoft/painting"
	"github.com/veandco/go-sdl2/img"
)

func init() {
	img.Init(img.INIT_JPG | img.INIT_PNG)
}

// LoadPixmap loads an image file as an RGBA32 pixmap
func LoadPixmap(fileName string) (*painting.Pixmap, error) {
	image, err := img.Load(fileName)
	if err != nil {
		return nil, err
	}
	defer image.Free()

	sdlPixFormat, err := pixelFormatToSDL(painting.RGBA32)
	if err != nil {
		return nil, err
	}

	convertedImage, err := image.ConvertFormat(sdlPixFormat, 0)
	if err != nil {
		return nil, err
	}
	defer convertedImage.Free()

	pixmap := painting.NewPixmap(int(convertedImage.W), int(convertedImage.H))
	pixels := convertedImage.Pixels()
	pitch := int(convertedImage.Pitch)
	for rowNum := 0; rowNum < pixmap.Height; rowNum++ {
		copy(pixmap.Data[rowNum*pixmap.BytePerLine:(rowNum+1)*pixmap.BytePerLine],
			pixels[rowNum*pitch:rowNum*pitch+pixmap.BytePerLine])
	}
	return pixmap, nil
}
