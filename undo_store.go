package painting

import (
	"sync"

	"cogentcore.org/core/base/keylist"
	"github.com/google/uuid"
)

// OperationID correlates the undo and recover entries of one stroke
type OperationID = uuid.UUID

// NewOperationID mints a fresh identifier
func NewOperationID() OperationID {
	return uuid.New()
}

// UndoStoreDelegate is notified whenever the history changes
type UndoStoreDelegate interface {
	HistoryChanged()
}

type historyEntry struct {
	undo    func()
	recover func()
}

// UndoStore is a LIFO history of reversal actions keyed by operation id.
// Entries may carry a forward (recover) action that reapplies the
// operation after it has been undone.
//
// Actions run on the calling goroutine with no lock held, so an action
// may call back into the store. Delegate notifications are always
// delivered on the observer queue.
type UndoStore struct {
	mutex    sync.Mutex
	delegate UndoStoreDelegate
	observer *DispatchQueue
	ownsObs  bool
	metrics  *Metrics

	operations keylist.List[OperationID, *historyEntry]
	undone     keylist.List[OperationID, *historyEntry]
}

// NewUndoStore creates an empty history that delivers notifications on
// observer. A nil observer makes the store run its own observer queue.
func NewUndoStore(observer *DispatchQueue) *UndoStore {
	store := &UndoStore{observer: observer}
	if observer == nil {
		store.observer = NewDispatchQueue("undo-observer")
		store.ownsObs = true
	}
	return store
}

// SetDelegate sets the history observer
func (store *UndoStore) SetDelegate(delegate UndoStoreDelegate) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.delegate = delegate
}

// SetMetrics attaches counters for undo and redo
func (store *UndoStore) SetMetrics(metrics *Metrics) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.metrics = metrics
}

// CanUndo reports whether the stack holds an entry
func (store *UndoStore) CanUndo() bool {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	return store.operations.Len() > 0
}

// CanRedo reports whether an undone entry can be reapplied
func (store *UndoStore) CanRedo() bool {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	return store.undone.Len() > 0
}

// Len returns the number of entries on the undo stack
func (store *UndoStore) Len() int {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	return store.operations.Len()
}

// RegisterUndo pushes a reversal action. An id that is already on the
// stack is ignored. Registering a new operation discards the redo stack.
func (store *UndoStore) RegisterUndo(id OperationID, undo func()) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if err := store.operations.Add(id, &historyEntry{undo: undo}); err != nil {
		componentLogger("undo").WithField("id", id).Debug("duplicate operation id ignored")
		return
	}
	store.undone.Reset()

	store.notifyOfHistoryChanges()
}

// RegisterRecover attaches a forward action to an operation that is on
// the undo stack. Unknown ids are ignored.
func (store *UndoStore) RegisterRecover(id OperationID, action func()) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	entry, ok := store.operations.AtTry(id)
	if !ok {
		componentLogger("undo").WithField("id", id).Debug("recover for unknown operation ignored")
		return
	}
	entry.recover = action

	store.notifyOfHistoryChanges()
}

// UnregisterUndo drops an entry without running it
func (store *UndoStore) UnregisterUndo(id OperationID) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if !store.operations.DeleteByKey(id) {
		return
	}

	store.notifyOfHistoryChanges()
}

// Undo pops the newest entry and runs its reversal on the calling
// goroutine. Does nothing when the stack is empty.
func (store *UndoStore) Undo() {
	store.mutex.Lock()
	n := store.operations.Len()
	if n == 0 {
		store.mutex.Unlock()
		return
	}

	id := store.operations.Keys[n-1]
	entry := store.operations.Values[n-1]
	store.operations.DeleteByIndex(n-1, n)
	if entry.recover != nil {
		store.undone.Set(id, entry)
	}
	metrics := store.metrics
	store.mutex.Unlock()

	entry.undo()
	metrics.incUndo()

	store.mutex.Lock()
	store.notifyOfHistoryChanges()
	store.mutex.Unlock()
}

// Redo reapplies the most recently undone entry that has a recover
// action and puts it back on the undo stack.
func (store *UndoStore) Redo() {
	store.mutex.Lock()
	n := store.undone.Len()
	if n == 0 {
		store.mutex.Unlock()
		return
	}

	id := store.undone.Keys[n-1]
	entry := store.undone.Values[n-1]
	store.undone.DeleteByIndex(n-1, n)
	store.operations.Set(id, entry)
	metrics := store.metrics
	store.mutex.Unlock()

	entry.recover()
	metrics.incRedo()

	store.mutex.Lock()
	store.notifyOfHistoryChanges()
	store.mutex.Unlock()
}

// RecoverAction looks up the forward action registered for id, whether
// the entry is still on the undo stack or has been undone.
func (store *UndoStore) RecoverAction(id OperationID) (func(), bool) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if entry, ok := store.operations.AtTry(id); ok && entry.recover != nil {
		return entry.recover, true
	}
	if entry, ok := store.undone.AtTry(id); ok {
		return entry.recover, true
	}
	return nil, false
}

// Recover runs the forward action of id without touching either stack
func (store *UndoStore) Recover(id OperationID) bool {
	action, ok := store.RecoverAction(id)
	if !ok {
		return false
	}
	action()
	return true
}

// Reset runs every reversal from newest to oldest and empties the
// history. Observers are notified once.
func (store *UndoStore) Reset() {
	store.mutex.Lock()
	entries := store.operations.Values
	store.operations.Reset()
	store.undone.Reset()
	store.mutex.Unlock()

	for i := len(entries) - 1; i >= 0; i-- {
		entries[i].undo()
	}

	store.mutex.Lock()
	store.notifyOfHistoryChanges()
	store.mutex.Unlock()
}

// Close stops the observer queue when the store created it
func (store *UndoStore) Close() {
	if store.ownsObs {
		store.observer.Close()
	}
}

// notifyOfHistoryChanges must be called with the mutex held
func (store *UndoStore) notifyOfHistoryChanges() {
	store.metrics.setHistoryDepth(store.operations.Len())

	delegate := store.delegate
	store.observer.Post(func() {
		if delegate != nil {
			delegate.HistoryChanged()
		}
	})
}
