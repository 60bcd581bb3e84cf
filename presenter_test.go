package painting

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameSource struct {
	canvas *Pixmap
}

func (source *frameSource) RenderFrame(done func(pixmap *Pixmap)) {
	done(source.canvas)
}

func (source *frameSource) Bounds() image.Rectangle {
	return source.canvas.Bounds()
}

type drawnRegion struct {
	op   string
	rect image.Rectangle
}

type recordingDisplay struct {
	mutex   sync.Mutex
	regions []drawnRegion
	frames  int
}

func (display *recordingDisplay) add(op string, rect image.Rectangle) error {
	display.mutex.Lock()
	defer display.mutex.Unlock()
	display.regions = append(display.regions, drawnRegion{op, rect})
	return nil
}

func (display *recordingDisplay) Begin() error {
	return nil
}

func (display *recordingDisplay) Clear(rect image.Rectangle) error {
	return display.add("clear", rect)
}

func (display *recordingDisplay) DrawPixmap(top image.Point, pixmap *Pixmap) error {
	return display.add("pixmap", pixmap.Bounds().Add(top))
}

func (display *recordingDisplay) DrawPackedPixmap(top image.Point, pixmap *PackedPixmap) error {
	return display.add("packed", image.Rect(0, 0, pixmap.Width, pixmap.Height).Add(top))
}

func (display *recordingDisplay) End() error {
	display.mutex.Lock()
	defer display.mutex.Unlock()
	display.frames++
	return nil
}

func (display *recordingDisplay) drawn() []drawnRegion {
	display.mutex.Lock()
	defer display.mutex.Unlock()
	return append([]drawnRegion(nil), display.regions...)
}

func (display *recordingDisplay) contains(region drawnRegion) bool {
	for _, r := range display.drawn() {
		if r == region {
			return true
		}
	}
	return false
}

func newFrameSource() *frameSource {
	canvas := NewPixmap(10, 10)
	canvas.Fill(color.NRGBA{R: 0xFF, A: 0xFF})
	return &frameSource{canvas: canvas}
}

func TestPresenterShowsWholeCanvasFirst(t *testing.T) {
	source := newFrameSource()
	display := &recordingDisplay{}
	presenter := NewPresenter(source, display, WithFrameRate(100))

	require.NoError(t, presenter.Start())
	defer presenter.Stop()

	require.Eventually(t, func() bool { return presenter.ShownFrames() >= 1 }, time.Second, time.Millisecond)
	drawn := display.drawn()
	require.GreaterOrEqual(t, len(drawn), 2)
	assert.Equal(t, drawnRegion{"clear", source.Bounds()}, drawn[0])
	assert.Equal(t, drawnRegion{"pixmap", source.Bounds()}, drawn[1])
}

func TestPresenterRedrawsInvalidatedRegion(t *testing.T) {
	source := newFrameSource()
	display := &recordingDisplay{}
	presenter := NewPresenter(source, display, WithFrameRate(100))

	require.NoError(t, presenter.Start())
	defer presenter.Stop()
	require.Eventually(t, func() bool { return presenter.ShownFrames() >= 1 }, time.Second, time.Millisecond)

	presenter.Invalidate(image.Rect(2, 2, 4, 4))
	require.Eventually(t, func() bool {
		return display.contains(drawnRegion{"pixmap", image.Rect(2, 2, 4, 4)})
	}, time.Second, time.Millisecond)
	assert.True(t, display.contains(drawnRegion{"clear", image.Rect(2, 2, 4, 4)}))
}

func TestPresenterIdlesWithoutChanges(t *testing.T) {
	source := newFrameSource()
	display := &recordingDisplay{}
	presenter := NewPresenter(source, display, WithFrameRate(100))

	require.NoError(t, presenter.Start())
	require.Eventually(t, func() bool { return presenter.ShownFrames() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	presenter.Stop()

	assert.Equal(t, 1, presenter.ShownFrames())
}

func TestPresenterPackedFrames(t *testing.T) {
	source := newFrameSource()
	display := &recordingDisplay{}
	presenter := NewPresenter(source, display, WithFrameRate(100), WithPackedFrames())

	require.NoError(t, presenter.Start())
	defer presenter.Stop()

	require.Eventually(t, func() bool {
		return display.contains(drawnRegion{"packed", source.Bounds()})
	}, time.Second, time.Millisecond)
}

func TestPresenterStartTwice(t *testing.T) {
	presenter := NewPresenter(newFrameSource(), NullDisplay())

	require.NoError(t, presenter.Start())
	assert.Error(t, presenter.Start())
	presenter.Stop()
	presenter.Stop()

	require.NoError(t, presenter.Start())
	presenter.Stop()
}

func TestPresenterShowsPainting(t *testing.T) {
	painting, _ := newTestPainting(t, NewSoftwareDevice())
	display := &recordingDisplay{}
	presenter := NewPresenter(painting, display, WithFrameRate(100))

	require.NoError(t, presenter.Start())
	defer presenter.Stop()

	require.Eventually(t, func() bool {
		return display.contains(drawnRegion{"pixmap", painting.Bounds()})
	}, time.Second, time.Millisecond)
}

func TestNewDeltaFrame(t *testing.T) {
	canvas := NewPixmap(10, 10)
	canvas.Fill(color.NRGBA{G: 0xFF, A: 0xFF})

	assert.Empty(t, NewDeltaFrame(canvas, image.Rect(20, 20, 30, 30), false).DrawOperations)

	display := &recordingDisplay{}
	frame := NewDeltaFrame(canvas, image.Rect(8, 8, 12, 12), false)
	require.NoError(t, frame.Draw(display))
	assert.Equal(t, []drawnRegion{
		{"clear", image.Rect(8, 8, 10, 10)},
		{"pixmap", image.Rect(8, 8, 10, 10)},
	}, display.drawn())

	display = &recordingDisplay{}
	require.NoError(t, NewDeltaFrame(canvas, image.Rect(0, 0, 4, 2), true).Draw(display))
	assert.Equal(t, []drawnRegion{
		{"clear", image.Rect(0, 0, 4, 2)},
		{"packed", image.Rect(0, 0, 4, 2)},
	}, display.drawn())
}
