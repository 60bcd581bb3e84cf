package painting

import "image"

// Frame contains a set of operations for drawing.
type Frame struct {
	DrawOperations []DrawOperation
}

// Draw draws the frame operations in order.
func (frame *Frame) Draw(display Display) error {
	for _, drawOperation := range frame.DrawOperations {
		err := drawOperation.Draw(display)
		if err != nil {
			return err
		}
	}
	return nil
}

// NewDeltaFrame creates a frame that redraws only the dirty part of a
// full canvas render. The region is cleared first because the canvas
// may be translucent. With packed set the pixels are RLE packed, which
// displays with a direct packed blit draw faster.
func NewDeltaFrame(canvas *Pixmap, dirty image.Rectangle, packed bool) *Frame {
	dirty = dirty.Intersect(canvas.Bounds())
	if dirty.Empty() {
		return &Frame{}
	}

	region := canvas.SubPixmap(dirty)
	frame := &Frame{
		DrawOperations: []DrawOperation{NewClearDrawOperation(dirty)},
	}
	if packed {
		frame.DrawOperations = append(frame.DrawOperations,
			NewDrawPackedPixmapOperation(dirty.Min, PackPixmap(region)))
	} else {
		frame.DrawOperations = append(frame.DrawOperations,
			NewDrawPixmapOperation(dirty.Min, region))
	}
	return frame
}
