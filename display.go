package painting

import (
	"image"
)

// Display is the interface definition for showing canvas frames
type Display interface {
	Begin() error
	Clear(rect image.Rectangle) error
	DrawPixmap(top image.Point, pixmap *Pixmap) error
	DrawPackedPixmap(top image.Point, pixmap *PackedPixmap) error
	End() error
}

type nullDisplay struct {
}

// NullDisplay returns a display that shows nothing
func NullDisplay() Display {
	return nullDisplay{}
}

func (nullDisplay) Begin() error {
	return nil
}

func (nullDisplay) Clear(rect image.Rectangle) error {
	return nil
}

func (nullDisplay) DrawPixmap(top image.Point, pixmap *Pixmap) error {
	return nil
}

func (nullDisplay) DrawPackedPixmap(top image.Point, packedPixmap *PackedPixmap) error {
	return nil
}

func (nullDisplay) End() error {
	return nil
}
