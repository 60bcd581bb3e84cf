package painting

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts the engine events that would otherwise be absorbed
// silently. A nil *Metrics is valid and records nothing.
type Metrics struct {
	StrokesCommitted      prometheus.Counter
	UndoOperations        prometheus.Counter
	RedoOperations        prometheus.Counter
	FramebufferIncomplete *prometheus.CounterVec
	SlicesCaptured        prometheus.Counter
	SliceSpillBytes       prometheus.Counter
	SliceSpillErrors      prometheus.Counter
	HistoryDepth          prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer keeps the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StrokesCommitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "painting_strokes_committed_total",
			Help: "Number of strokes composited into the canvas",
		}),
		UndoOperations: factory.NewCounter(prometheus.CounterOpts{
			Name: "painting_undo_total",
			Help: "Number of history entries reversed",
		}),
		RedoOperations: factory.NewCounter(prometheus.CounterOpts{
			Name: "painting_redo_total",
			Help: "Number of history entries reapplied",
		}),
		FramebufferIncomplete: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "painting_framebuffer_incomplete_total",
			Help: "Draws and read-backs skipped because the framebuffer was incomplete",
		}, []string{"op"}),
		SlicesCaptured: factory.NewCounter(prometheus.CounterOpts{
			Name: "painting_slices_captured_total",
			Help: "Number of canvas regions read back into slices",
		}),
		SliceSpillBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "painting_slice_spill_bytes_total",
			Help: "Packed bytes written by the slice store",
		}),
		SliceSpillErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "painting_slice_spill_errors_total",
			Help: "Slices that could not be spilled and stayed in memory",
		}),
		HistoryDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "painting_history_depth",
			Help: "Number of entries on the undo stack",
		}),
	}
}

func (m *Metrics) incFramebufferIncomplete(op string) {
	if m != nil {
		m.FramebufferIncomplete.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) incStrokesCommitted() {
	if m != nil {
		m.StrokesCommitted.Inc()
	}
}

func (m *Metrics) incSlicesCaptured() {
	if m != nil {
		m.SlicesCaptured.Inc()
	}
}

func (m *Metrics) addSpillBytes(n int) {
	if m != nil {
		m.SliceSpillBytes.Add(float64(n))
	}
}

func (m *Metrics) incSpillErrors() {
	if m != nil {
		m.SliceSpillErrors.Inc()
	}
}

func (m *Metrics) incUndo() {
	if m != nil {
		m.UndoOperations.Inc()
	}
}

func (m *Metrics) incRedo() {
	if m != nil {
		m.RedoOperations.Inc()
	}
}

func (m *Metrics) setHistoryDepth(n int) {
	if m != nil {
		m.HistoryDepth.Set(float64(n))
	}
}
