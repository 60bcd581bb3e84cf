package main

import (
	"image"

	"github.com/rmcsoft/painting"
	"github.com/sirupsen/logrus"
)

// canvasOwner supplies the history and the slice store of the canvas and
// logs what it is told.
type canvasOwner struct {
	log      logrus.FieldLogger
	observer *painting.DispatchQueue
	persist  *painting.DispatchQueue
	history  *painting.UndoStore
	slices   *painting.SliceStore
}

func newCanvasOwner(config painting.Config, metrics *painting.Metrics, log logrus.FieldLogger) (*canvasOwner, error) {
	persist := painting.NewDispatchQueue("slices")
	slices, err := painting.NewSliceStore(persist, config.SpillDir, config.SpillThreshold)
	if err != nil {
		persist.Close()
		return nil, err
	}
	slices.SetMetrics(metrics)

	observer := painting.NewDispatchQueue("ui")
	history := painting.NewUndoStore(observer)
	history.SetMetrics(metrics)

	owner := &canvasOwner{
		log:      log,
		observer: observer,
		persist:  persist,
		history:  history,
		slices:   slices,
	}
	history.SetDelegate(owner)
	return owner, nil
}

func (owner *canvasOwner) ContentChanged(rect image.Rectangle) {
	owner.log.WithField("rect", rect).Debug("content changed")
}

func (owner *canvasOwner) StrokeCommitted() {
	owner.log.Debug("stroke committed")
}

func (owner *canvasOwner) UndoStore() *painting.UndoStore {
	return owner.history
}

func (owner *canvasOwner) SliceStore() *painting.SliceStore {
	return owner.slices
}

func (owner *canvasOwner) HistoryChanged() {
	owner.log.WithFields(logrus.Fields{
		"undo": owner.history.CanUndo(),
		"redo": owner.history.CanRedo(),
	}).Debug("history changed")
}

// Close waits for pending notifications and spills and removes the
// temporary slice directory.
func (owner *canvasOwner) Close() {
	owner.observer.Close()
	if err := owner.slices.Close(); err != nil {
		owner.log.WithError(err).Warn("slice directory not removed")
	}
	owner.persist.Close()
}
