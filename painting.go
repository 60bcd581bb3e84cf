package painting

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

const defaultBrushSize = 16

// Delegate is implemented by the owner of a Painting. ContentChanged
// and StrokeCommitted are called on the render context; an empty
// rectangle means the whole surface changed.
type Delegate interface {
	ContentChanged(rect image.Rectangle)
	StrokeCommitted()
	// UndoStore returns the history strokes are registered with, or nil
	UndoStore() *UndoStore
	// SliceStore returns the persistence queue for captured slices, or nil
	SliceStore() *SliceStore
}

// Option configures a Painting
type Option func(painting *Painting)

// WithRenderContext makes the painting run its GPU work on queue instead
// of a private one. The queue is not closed by Painting.Close.
func WithRenderContext(queue *DispatchQueue) Option {
	return func(painting *Painting) {
		painting.context = queue
	}
}

// WithPathRenderer replaces the stamp path renderer
func WithPathRenderer(renderer PathRenderer) Option {
	return func(painting *Painting) {
		painting.pathRenderer = renderer
	}
}

// WithMetrics records engine events in metrics
func WithMetrics(metrics *Metrics) Option {
	return func(painting *Painting) {
		painting.metrics = metrics
	}
}

// Painting is a canvas that accumulates brush strokes. Every call that
// touches the device is queued on a single render context and runs in
// submission order.
type Painting struct {
	device      Device
	context     *DispatchQueue
	ownsContext bool
	metrics     *Metrics
	bitmap      *Pixmap

	closeOnce sync.Once
	paused    atomic.Bool

	// The fields below are owned by the render context.
	delegate         Delegate
	shaders          Shaders
	shadersInstalled bool
	canvas           Texture
	mask             Texture
	framebuffer      Framebuffer
	brush            *Brush
	brushTexture     Texture
	pathRenderer     PathRenderer
	stampRenderer    StampPathRenderer

	activePath         *Path
	activeStrokeBounds image.Rectangle
	renderState        RenderState
	suppressed         int
	closed             bool

	backup          *Slice
	pendingRestores []*Slice
}

// NewPainting creates a canvas with the content and size of bitmap.
// The pixels are copied, so later changes to bitmap are not seen. The
// device is only used from the render context.
func NewPainting(device Device, bitmap *Pixmap, opts ...Option) *Painting {
	if bitmap.PixFormat != RGBA32 || bitmap.BytePerLine != bitmap.Width*GetPixelSize(RGBA32) {
		bitmap = PixmapFromImage(bitmap.ToImage())
	} else {
		bitmap = bitmap.SubPixmap(bitmap.Bounds())
	}

	painting := &Painting{
		device: device,
		bitmap: bitmap,
		brush:  &Brush{Size: defaultBrushSize},
	}
	for _, opt := range opts {
		opt(painting)
	}
	if painting.context == nil {
		painting.context = NewDispatchQueue("render")
		painting.ownsContext = true
	}
	painting.stampRenderer.Brush = painting.brush
	return painting
}

// Size returns the canvas size
func (painting *Painting) Size() image.Point {
	return image.Point{painting.bitmap.Width, painting.bitmap.Height}
}

// Bounds returns the canvas rectangle
func (painting *Painting) Bounds() image.Rectangle {
	return painting.bitmap.Bounds()
}

// SetDelegate sets the owner callbacks
func (painting *Painting) SetDelegate(delegate Delegate) {
	painting.perform(func() {
		painting.delegate = delegate
	})
}

// SetupShaders installs the shader set. Nothing is drawn before it.
func (painting *Painting) SetupShaders() {
	painting.perform(func() {
		if painting.shadersInstalled {
			return
		}
		painting.shaders = SetupShaders(painting.device)
		painting.shadersInstalled = true
		painting.logger().WithField("programs", len(painting.shaders)).Debug("shaders installed")
	})
}

// SetBrush changes the brush of the following strokes
func (painting *Painting) SetBrush(brush *Brush) {
	if brush == nil {
		brush = &Brush{Size: defaultBrushSize}
	}
	painting.perform(func() {
		painting.releaseBrushTexture()
		painting.brush = brush
		painting.stampRenderer.Brush = brush
	})
}

// PaintStroke renders path into the mask. A true clearBuffer starts a
// new stroke; otherwise path continues the active one. done, if not nil,
// runs on the render context when the path has been rendered.
func (painting *Painting) PaintStroke(path *Path, clearBuffer bool, done func()) {
	painting.perform(func() {
		if done != nil {
			defer done()
		}
		painting.paintStroke(path, clearBuffer)
	})
}

// CommitStroke blends the active stroke into the canvas with c and
// records it in the history.
func (painting *Painting) CommitStroke(c color.NRGBA) {
	painting.perform(func() {
		painting.commitStroke(c)
	})
}

// RenderFrame renders the canvas for display, with the active stroke on
// top of it. done receives nil when nothing could be rendered.
func (painting *Painting) RenderFrame(done func(pixmap *Pixmap)) {
	painting.perform(func() {
		done(painting.renderFrame())
	})
}

// Snapshot reads back the canvas inside rect. done receives nil when the
// rectangle is outside the canvas or the read-back failed.
func (painting *Painting) Snapshot(rect image.Rectangle, done func(pixmap *Pixmap)) {
	painting.perform(func() {
		done(painting.snapshot(rect))
	})
}

// Sync waits until the queued work has been done
func (painting *Painting) Sync() {
	painting.context.Sync()
}

func (painting *Painting) perform(task func()) {
	painting.context.Post(task)
}

func (painting *Painting) logger() logrus.FieldLogger {
	return componentLogger("painting")
}

func (painting *Painting) paintStroke(path *Path, clearBuffer bool) {
	if !painting.hasShaders() || painting.paused.Load() {
		return
	}
	program, ok := painting.shaders.Get(painting.brush.brushShader())
	if !ok {
		return
	}
	if !painting.ensureResources() {
		return
	}
	stamp := painting.ensureBrushTexture()
	if stamp == nil {
		return
	}

	if clearBuffer {
		painting.activeStrokeBounds = image.Rectangle{}
		painting.renderState.Reset()
	}

	var rect image.Rectangle
	if painting.bind(painting.mask, "paint") {
		if clearBuffer {
			painting.device.Clear(color.NRGBA{})
		}
		call := DrawCall{
			Program:  program,
			Textures: [2]Texture{stamp},
			Blend:    BlendPremultiplied,
		}
		rect = painting.renderer().RenderPath(painting.device, call, path, &painting.renderState)
	}
	painting.device.UnbindFramebuffer()

	painting.activePath = path
	painting.activeStrokeBounds = painting.activeStrokeBounds.Union(rect)
	painting.logger().WithFields(logrus.Fields{"op": "paint", "rect": rect}).Debug("stroke painted")

	if changed := rect.Intersect(painting.Bounds()); !changed.Empty() {
		painting.notifyContentChanged(changed)
	}
}

func (painting *Painting) commitStroke(c color.NRGBA) {
	if !painting.hasShaders() || painting.paused.Load() || painting.activePath == nil {
		return
	}
	program, ok := painting.shaders.Get(painting.brush.compositeShader())
	if !ok {
		return
	}
	if !painting.ensureResources() {
		return
	}

	defer painting.discardStroke()

	id := NewOperationID()
	rect := painting.activeStrokeBounds.Intersect(painting.Bounds())
	history := painting.undoStore()

	var before *Slice
	if !rect.Empty() && history != nil {
		if before = painting.captureSlice(rect); before != nil {
			history.RegisterUndo(id, painting.restoreAction(before))
		}
	}

	if after := painting.composite(program, c, rect, before != nil); after != nil {
		history.RegisterRecover(id, painting.restoreAction(after))
	}

	painting.logger().WithFields(logrus.Fields{"op": "commit", "rect": rect, "id": id}).Debug("stroke committed")
	if !rect.Empty() {
		painting.notifyContentChanged(rect)
	}
	if painting.delegate != nil {
		painting.delegate.StrokeCommitted()
	}
	painting.metrics.incStrokesCommitted()
}

// composite blends the mask into the canvas and, when capture is set,
// returns the post-stroke slice of rect. Notifications stay withheld
// until it returns, even if the device fails.
func (painting *Painting) composite(program Program, c color.NRGBA, rect image.Rectangle, capture bool) *Slice {
	release := painting.suppressChanges()
	defer release()

	if painting.bind(painting.canvas, "composite") {
		painting.drawBound(DrawCall{
			Program:  program,
			Textures: [2]Texture{painting.mask},
			Color:    c,
			Blend:    BlendComposite,
		})
	} else {
		painting.device.UnbindFramebuffer()
	}

	if !capture {
		return nil
	}
	return painting.captureSlice(rect)
}

// drawBound issues call into the bound framebuffer and unbinds it
func (painting *Painting) drawBound(call DrawCall) {
	defer painting.device.UnbindFramebuffer()
	painting.device.Draw(call)
}

func (painting *Painting) renderFrame() *Pixmap {
	if !painting.hasShaders() || painting.paused.Load() {
		return nil
	}

	call := DrawCall{Blend: BlendPremultiplied}
	var ok bool
	if painting.activePath != nil {
		call.Program, ok = painting.shaders.Get(painting.brush.blitShader())
		call.Color = painting.activePath.Color
	} else {
		call.Program, ok = painting.shaders.Get(ShaderBlit)
	}
	if !ok || !painting.ensureResources() {
		return nil
	}
	call.Textures = [2]Texture{painting.canvas, painting.mask}

	return painting.drawOffscreen(painting.Bounds(), call, "render")
}

func (painting *Painting) snapshot(rect image.Rectangle) *Pixmap {
	rect = rect.Intersect(painting.Bounds())
	if rect.Empty() || !painting.hasShaders() || painting.paused.Load() {
		return nil
	}
	program, ok := painting.shaders.Get(ShaderBlit)
	if !ok || !painting.ensureResources() {
		return nil
	}

	return painting.drawOffscreen(rect, DrawCall{
		Program:  program,
		Textures: [2]Texture{painting.canvas},
		Blend:    BlendPremultiplied,
	}, "snapshot")
}

// drawOffscreen runs call into a transparent texture covering rect and
// reads the result back.
func (painting *Painting) drawOffscreen(rect image.Rectangle, call DrawCall, op string) *Pixmap {
	pix := painting.readBack(rect, call, op)
	if pix == nil {
		return nil
	}
	pixmap, err := NewPixmapFromData(rect.Dx(), rect.Dy(), pix)
	if err != nil {
		painting.logger().WithError(err).WithField("op", op).Warn("read-back has an unexpected size")
		return nil
	}
	return pixmap
}

func (painting *Painting) hasShaders() bool {
	return len(painting.shaders) > 0
}

func (painting *Painting) renderer() PathRenderer {
	if painting.pathRenderer != nil {
		return painting.pathRenderer
	}
	return &painting.stampRenderer
}

func (painting *Painting) undoStore() *UndoStore {
	if painting.delegate == nil {
		return nil
	}
	return painting.delegate.UndoStore()
}

func (painting *Painting) sliceStore() *SliceStore {
	if painting.delegate == nil {
		return nil
	}
	return painting.delegate.SliceStore()
}

// bind attaches target to the reusable framebuffer. An incomplete
// framebuffer is reported and the caller skips its draw, but it must
// still unbind.
func (painting *Painting) bind(target Texture, op string) bool {
	status := painting.device.BindFramebuffer(painting.framebuffer, target)
	if status == FramebufferComplete {
		return true
	}
	painting.metrics.incFramebufferIncomplete(op)
	painting.logger().WithFields(logrus.Fields{"op": op, "status": status.String()}).
		Warn("framebuffer incomplete, draw skipped")
	return false
}

func (painting *Painting) notifyContentChanged(rect image.Rectangle) {
	if painting.suppressed > 0 || painting.delegate == nil {
		return
	}
	painting.delegate.ContentChanged(rect)
}
