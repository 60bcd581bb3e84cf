package painting

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
)

// Slice is an immutable capture of a canvas rectangle. Its pixels may be
// moved to disk by the SliceStore; Data reloads them when needed.
type Slice struct {
	bounds image.Rectangle
	store  *SliceStore

	mutex    sync.Mutex
	data     []byte
	fileName string
	released bool
}

// NewSlice wraps RGBA32 pixels captured from bounds. The store may be nil,
// in which case the pixels stay in memory.
func NewSlice(data []byte, bounds image.Rectangle, store *SliceStore) (*Slice, error) {
	if bounds.Empty() {
		return nil, errors.New("Slice bounds are empty")
	}
	if want := bounds.Dx() * bounds.Dy() * GetPixelSize(RGBA32); len(data) != want {
		return nil, fmt.Errorf("Slice data has %d bytes, expected %d", len(data), want)
	}

	slice := &Slice{
		bounds: bounds,
		store:  store,
		data:   data,
	}
	if store != nil {
		store.schedule(slice)
	}
	return slice, nil
}

// Bounds returns the canvas rectangle the slice was captured from
func (slice *Slice) Bounds() image.Rectangle {
	return slice.bounds
}

// X returns the left edge
func (slice *Slice) X() int {
	return slice.bounds.Min.X
}

// Y returns the top edge
func (slice *Slice) Y() int {
	return slice.bounds.Min.Y
}

// Width returns the slice width in pixels
func (slice *Slice) Width() int {
	return slice.bounds.Dx()
}

// Height returns the slice height in pixels
func (slice *Slice) Height() int {
	return slice.bounds.Dy()
}

// Data returns the captured pixels, reading them back from the spill
// file if they were moved to disk.
func (slice *Slice) Data() ([]byte, error) {
	slice.mutex.Lock()
	defer slice.mutex.Unlock()

	if slice.released {
		return nil, errors.New("Slice is released")
	}
	if slice.data != nil {
		return slice.data, nil
	}

	packedPixmap, err := LoadPackedPixmap(slice.fileName)
	if err != nil {
		return nil, fmt.Errorf("reload slice: %w", err)
	}
	pixmap, err := packedPixmap.Unpack()
	if err != nil {
		return nil, fmt.Errorf("reload slice: %w", err)
	}
	if pixmap.Width != slice.Width() || pixmap.Height != slice.Height() {
		return nil, errors.New("reload slice: spill file does not match the slice bounds")
	}
	return pixmap.Data, nil
}

// IsSpilled reports whether the pixels currently live only on disk
func (slice *Slice) IsSpilled() bool {
	slice.mutex.Lock()
	defer slice.mutex.Unlock()
	return slice.data == nil && slice.fileName != ""
}

// Release drops the pixels and removes the spill file
func (slice *Slice) Release() {
	slice.mutex.Lock()
	defer slice.mutex.Unlock()

	if slice.released {
		return
	}
	slice.released = true
	slice.data = nil
	if slice.fileName != "" {
		if err := os.Remove(slice.fileName); err != nil && !os.IsNotExist(err) {
			componentLogger("slice").WithError(err).Warn("failed to remove spill file")
		}
		slice.fileName = ""
	}
}

// spill is run on the store queue. The buffer is dropped only after the
// packed copy is safely on disk.
func (slice *Slice) spill(fileName string) (int, error) {
	slice.mutex.Lock()
	data := slice.data
	released := slice.released
	slice.mutex.Unlock()

	if released || data == nil {
		return 0, nil
	}

	pixmap, err := NewPixmapFromData(slice.Width(), slice.Height(), data)
	if err != nil {
		return 0, err
	}
	packedPixmap := PackPixmap(pixmap)
	if err = packedPixmap.Save(fileName); err != nil {
		os.Remove(fileName)
		return 0, err
	}

	slice.mutex.Lock()
	defer slice.mutex.Unlock()
	if slice.released {
		os.Remove(fileName)
		return 0, nil
	}
	slice.fileName = fileName
	slice.data = nil
	return len(packedPixmap.Data), nil
}
