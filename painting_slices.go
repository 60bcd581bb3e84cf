package painting

import (
	"image"
	"image/color"

	"github.com/sirupsen/logrus"
)

// captureSlice reads the canvas inside rect into a slice. rect must
// already be clamped to the canvas.
func (painting *Painting) captureSlice(rect image.Rectangle) *Slice {
	var pix []byte
	if program, ok := painting.shaders.Get(ShaderNonPremultipliedBlit); ok {
		pix = painting.readBack(rect, DrawCall{
			Program:  program,
			Textures: [2]Texture{painting.canvas},
			Blend:    BlendCopy,
		}, "capture")
	} else {
		if painting.bind(painting.canvas, "capture") {
			pix = painting.device.ReadPixels(rect)
		}
		painting.device.UnbindFramebuffer()
	}
	if pix == nil {
		return nil
	}

	slice, err := NewSlice(pix, rect, painting.sliceStore())
	if err != nil {
		painting.logger().WithError(err).WithField("rect", rect).Warn("slice not captured")
		return nil
	}
	painting.metrics.incSlicesCaptured()
	painting.logger().WithFields(logrus.Fields{"op": "capture", "rect": rect}).Debug("slice captured")
	return slice
}

// readBack draws call translated so that rect lands on a temporary
// target of the same size and returns the target pixels.
func (painting *Painting) readBack(rect image.Rectangle, call DrawCall, op string) []byte {
	target, err := painting.device.NewTexture(rect.Dx(), rect.Dy(), nil)
	if err != nil {
		painting.logger().WithError(err).WithField("op", op).Warn("read-back target not created")
		return nil
	}
	defer painting.device.DeleteTexture(target)

	var pix []byte
	if painting.bind(target, op) {
		painting.device.Clear(color.NRGBA{})
		call.Offset = image.Point{}.Sub(rect.Min)
		painting.device.Draw(call)
		pix = painting.device.ReadPixels(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	}
	painting.device.UnbindFramebuffer()
	return pix
}

// restoreAction returns a history action that writes slice back into
// the canvas on the render context.
func (painting *Painting) restoreAction(slice *Slice) func() {
	return func() {
		painting.perform(func() {
			painting.restoreSlice(slice)
		})
	}
}

func (painting *Painting) restoreSlice(slice *Slice) {
	if painting.paused.Load() {
		painting.pendingRestores = append(painting.pendingRestores, slice)
		return
	}
	if !painting.ensureResources() {
		return
	}

	data, err := slice.Data()
	if err != nil {
		painting.logger().WithError(err).WithField("rect", slice.Bounds()).Warn("slice not restored")
		return
	}
	painting.device.UploadRegion(painting.canvas, slice.Bounds(), data)
	painting.logger().WithFields(logrus.Fields{"op": "restore", "rect": slice.Bounds()}).Debug("slice restored")

	painting.notifyContentChanged(slice.Bounds())
}

// suppressChanges withholds content notifications until the returned
// function is called. Scopes nest.
func (painting *Painting) suppressChanges() func() {
	painting.suppressed++
	released := false
	return func() {
		if !released {
			released = true
			painting.suppressed--
		}
	}
}
