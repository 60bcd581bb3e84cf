package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rmcsoft/painting"
)

const (
	pageMargin = 10.0
	pageWidth  = 210.0
)

func readPNG(fileName string) (*painting.Pixmap, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, err
	}
	return painting.PixmapFromImage(img), nil
}

func savePixmap(fileName string, pixmap *painting.Pixmap) error {
	if strings.EqualFold(filepath.Ext(fileName), ".ppixmap") {
		return painting.PackPixmap(pixmap).Save(fileName)
	}

	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	if err = png.Encode(file, pixmap.ToImage()); err != nil {
		return err
	}
	return file.Sync()
}

// exportPDF places the painting on an A4 page scaled to the page width
func exportPDF(fileName string, pixmap *painting.Pixmap) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, pixmap.ToImage()); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	imageOptions := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("painting", imageOptions, &buf)
	width := pageWidth - 2*pageMargin
	height := width * float64(pixmap.Height) / float64(pixmap.Width)
	pdf.ImageOptions("painting", pageMargin, pageMargin, width, height, false, imageOptions, 0, "")
	return pdf.OutputFileAndClose(fileName)
}
