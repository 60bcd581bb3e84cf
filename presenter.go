package painting

import (
	"errors"
	"image"
	"sync"
	"time"
)

const defaultFrameRate = 25

// FrameSource renders the canvas for display. *Painting implements it.
type FrameSource interface {
	RenderFrame(done func(pixmap *Pixmap))
	Bounds() image.Rectangle
}

// PresenterOption configures a Presenter
type PresenterOption func(presenter *Presenter)

// WithFrameRate sets the number of frames per second
func WithFrameRate(frameRate int) PresenterOption {
	return func(presenter *Presenter) {
		if frameRate > 0 {
			presenter.frameRate = frameRate
		}
	}
}

// WithPackedFrames makes the presenter send RLE packed pixmaps
func WithPackedFrames() PresenterOption {
	return func(presenter *Presenter) {
		presenter.packed = true
	}
}

// Presenter shows a painting on a display at a fixed frame rate. Only
// invalidated regions are redrawn.
type Presenter struct {
	source    FrameSource
	display   Display
	frameRate int
	packed    bool

	mutex         sync.Mutex
	isRunning     bool
	dirty         image.Rectangle
	stop          chan struct{}
	stopped       chan struct{}
	droppedFrames int
	shownFrames   int
}

// NewPresenter creates a stopped presenter
func NewPresenter(source FrameSource, display Display, opts ...PresenterOption) *Presenter {
	presenter := &Presenter{
		source:    source,
		display:   display,
		frameRate: defaultFrameRate,
	}
	for _, opt := range opts {
		opt(presenter)
	}
	return presenter
}

// Start drawing. The whole canvas is shown first.
func (presenter *Presenter) Start() error {
	presenter.mutex.Lock()
	defer presenter.mutex.Unlock()

	if presenter.isRunning {
		return errors.New("Presenter is already running")
	}

	presenter.isRunning = true
	presenter.dirty = presenter.source.Bounds()
	presenter.stop = make(chan struct{})
	presenter.stopped = make(chan struct{})
	go presenter.doDraw(presenter.stop, presenter.stopped)
	return nil
}

// Stop drawing and wait for the frame in progress
func (presenter *Presenter) Stop() {
	presenter.mutex.Lock()
	if !presenter.isRunning {
		presenter.mutex.Unlock()
		return
	}
	presenter.isRunning = false
	close(presenter.stop)
	stopped := presenter.stopped
	presenter.mutex.Unlock()

	<-stopped
}

// Invalidate marks rect for redrawing. An empty rectangle invalidates
// the whole canvas. It fits Delegate.ContentChanged.
func (presenter *Presenter) Invalidate(rect image.Rectangle) {
	if rect.Empty() {
		rect = presenter.source.Bounds()
	}

	presenter.mutex.Lock()
	presenter.dirty = presenter.dirty.Union(rect)
	presenter.mutex.Unlock()
}

// DroppedFrames returns the number of frames skipped because drawing
// fell behind the frame rate.
func (presenter *Presenter) DroppedFrames() int {
	presenter.mutex.Lock()
	defer presenter.mutex.Unlock()
	return presenter.droppedFrames
}

// ShownFrames returns the number of frames drawn on the display
func (presenter *Presenter) ShownFrames() int {
	presenter.mutex.Lock()
	defer presenter.mutex.Unlock()
	return presenter.shownFrames
}

func (presenter *Presenter) doDraw(stop chan struct{}, stopped chan struct{}) {
	defer close(stopped)

	log := componentLogger("presenter")
	showFrameDuration := time.Second / time.Duration(presenter.frameRate)
	showNextFrameTime := time.Now()
	for {
		showNextFrameTime = showNextFrameTime.Add(showFrameDuration)
		if time.Until(showNextFrameTime) <= 0 {
			presenter.mutex.Lock()
			presenter.droppedFrames++
			droppedFrameCount := presenter.droppedFrames
			presenter.mutex.Unlock()
			if droppedFrameCount%100 == 0 {
				log.WithField("dropped", droppedFrameCount).Warn("presenter is falling behind")
			}
			continue
		}

		if dirty := presenter.takeDirty(); !dirty.Empty() {
			canvas, ok := presenter.renderFrame(stop)
			if !ok {
				return
			}
			if canvas != nil {
				if err := presenter.show(NewDeltaFrame(canvas, dirty, presenter.packed)); err != nil {
					log.WithError(err).Warn("frame not shown")
				}
			}
		}

		select {
		case <-stop:
			return
		case <-time.After(time.Until(showNextFrameTime)):
		}
	}
}

func (presenter *Presenter) takeDirty() image.Rectangle {
	presenter.mutex.Lock()
	defer presenter.mutex.Unlock()

	dirty := presenter.dirty
	presenter.dirty = image.Rectangle{}
	return dirty
}

// renderFrame waits for the source; ok is false when the presenter was
// stopped first.
func (presenter *Presenter) renderFrame(stop chan struct{}) (*Pixmap, bool) {
	result := make(chan *Pixmap, 1)
	presenter.source.RenderFrame(func(pixmap *Pixmap) {
		result <- pixmap
	})

	select {
	case pixmap := <-result:
		return pixmap, true
	case <-stop:
		return nil, false
	}
}

func (presenter *Presenter) show(frame *Frame) error {
	if err := presenter.display.Begin(); err != nil {
		return err
	}
	err := frame.Draw(presenter.display)
	if endErr := presenter.display.End(); err == nil {
		err = endErr
	}
	if err == nil {
		presenter.mutex.Lock()
		presenter.shownFrames++
		presenter.mutex.Unlock()
	}
	return err
}
