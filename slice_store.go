package painting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// DefaultSpillThreshold is the slice size from which pixels are moved
// to disk.
const DefaultSpillThreshold = 256 * 1024

// SliceStore moves large slices off the heap. Spilling runs on its queue
// so capture inside the render context never waits for the disk.
type SliceStore struct {
	queue     *DispatchQueue
	dir       string
	ownsDir   bool
	threshold int
	metrics   *Metrics

	counter atomic.Uint64
}

// NewSliceStore creates a store that spills slices of at least threshold
// bytes into dir. An empty dir creates a temporary directory that is
// removed by Close. A threshold <= 0 keeps every slice in memory.
func NewSliceStore(queue *DispatchQueue, dir string, threshold int) (*SliceStore, error) {
	store := &SliceStore{
		queue:     queue,
		dir:       dir,
		threshold: threshold,
	}

	if threshold <= 0 {
		return store, nil
	}

	if dir == "" {
		tmp, err := os.MkdirTemp("", "painting-slices-")
		if err != nil {
			return nil, fmt.Errorf("create slice directory: %w", err)
		}
		store.dir = tmp
		store.ownsDir = true
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create slice directory: %w", err)
	}
	return store, nil
}

// SetMetrics attaches spill counters
func (store *SliceStore) SetMetrics(metrics *Metrics) {
	store.metrics = metrics
}

// Dir returns the spill directory
func (store *SliceStore) Dir() string {
	return store.dir
}

// Sync waits for pending spills
func (store *SliceStore) Sync() {
	if store.queue != nil {
		store.queue.Sync()
	}
}

// Close waits for pending spills and removes a directory the store
// created itself.
func (store *SliceStore) Close() error {
	store.Sync()
	if store.ownsDir {
		return os.RemoveAll(store.dir)
	}
	return nil
}

func (store *SliceStore) schedule(slice *Slice) {
	if store.queue == nil || store.threshold <= 0 {
		return
	}
	if slice.Width()*slice.Height()*GetPixelSize(RGBA32) < store.threshold {
		return
	}

	fileName := filepath.Join(store.dir, fmt.Sprintf("slice-%08d.ppixmap", store.counter.Add(1)))
	store.queue.Post(func() {
		n, err := slice.spill(fileName)
		if err != nil {
			store.metrics.incSpillErrors()
			componentLogger("slice").WithError(err).WithField("bounds", slice.Bounds()).
				Warn("slice kept in memory")
			return
		}
		store.metrics.addSpillBytes(n)
	})
}
