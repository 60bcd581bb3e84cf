package painting

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// loggerBox wraps the interface so it can live in an atomic.Pointer.
type loggerBox struct {
	logger logrus.FieldLogger
}

var loggerPtr atomic.Pointer[loggerBox]

func init() {
	loggerPtr.Store(&loggerBox{newNopLogger()})
}

func newNopLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// SetLogger configures the logger used by the painting core. By default
// nothing is logged. Pass nil to restore the silent default.
//
// Levels:
//   - Debug: per-operation diagnostics (bounds, slice sizes, skipped work)
//   - Info: lifecycle events (pause, resume, teardown)
//   - Warn: absorbed failures (incomplete framebuffers, spill errors)
//
// SetLogger is safe for concurrent use.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(&loggerBox{l})
}

// Logger returns the current logger.
func Logger() logrus.FieldLogger {
	return loggerPtr.Load().logger
}

func componentLogger(component string) logrus.FieldLogger {
	return Logger().WithField("component", component)
}
