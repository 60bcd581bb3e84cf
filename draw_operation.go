package painting

import "image"

// DrawOperation is interface to encapsulate the drawing operation
type DrawOperation interface {
	Draw(display Display) error
}

type clearOperation struct {
	rect image.Rectangle
}

func (o *clearOperation) Draw(display Display) error {
	return display.Clear(o.rect)
}

// NewClearDrawOperation creates an operation to clear the specified rectangle.
func NewClearDrawOperation(rect image.Rectangle) DrawOperation {
	return &clearOperation{rect}
}

type drawPixmapOperation struct {
	top    image.Point
	pixmap *Pixmap
}

func (o *drawPixmapOperation) Draw(display Display) error {
	return display.DrawPixmap(o.top, o.pixmap)
}

// NewDrawPixmapOperation creates an operation to draw the pixmap.
func NewDrawPixmapOperation(top image.Point, pixmap *Pixmap) DrawOperation {
	return &drawPixmapOperation{
		top:    top,
		pixmap: pixmap,
	}
}

type drawPackedPixmapOperation struct {
	top    image.Point
	pixmap *PackedPixmap
}

func (o *drawPackedPixmapOperation) Draw(display Display) error {
	return display.DrawPackedPixmap(o.top, o.pixmap)
}

// NewDrawPackedPixmapOperation creates an operation to draw the packed pixmap.
func NewDrawPackedPixmapOperation(top image.Point, pixmap *PackedPixmap) DrawOperation {
	return &drawPackedPixmapOperation{
		top:    top,
		pixmap: pixmap,
	}
}
