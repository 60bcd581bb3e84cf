package painting

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyCounter struct {
	count atomic.Int32
}

func (counter *historyCounter) HistoryChanged() {
	counter.count.Add(1)
}

func newTestUndoStore(t *testing.T) (*UndoStore, *DispatchQueue, *historyCounter) {
	observer := NewDispatchQueue("observer")
	t.Cleanup(observer.Close)

	store := NewUndoStore(observer)
	counter := &historyCounter{}
	store.SetDelegate(counter)
	return store, observer, counter
}

func TestUndoStoreUndoRunsNewestFirst(t *testing.T) {
	store, observer, counter := newTestUndoStore(t)

	var log []string
	store.RegisterUndo(NewOperationID(), func() { log = append(log, "first") })
	store.RegisterUndo(NewOperationID(), func() { log = append(log, "second") })
	require.True(t, store.CanUndo())
	require.Equal(t, 2, store.Len())

	store.Undo()
	assert.Equal(t, []string{"second"}, log)
	store.Undo()
	assert.Equal(t, []string{"second", "first"}, log)
	assert.False(t, store.CanUndo())

	observer.Sync()
	assert.EqualValues(t, 4, counter.count.Load())
}

func TestUndoStoreUndoOnEmptyStack(t *testing.T) {
	store, observer, counter := newTestUndoStore(t)

	store.Undo()
	store.Redo()
	observer.Sync()
	assert.False(t, store.CanUndo())
	assert.EqualValues(t, 0, counter.count.Load())
}

func TestUndoStoreDuplicateIDIsIgnored(t *testing.T) {
	store, observer, counter := newTestUndoStore(t)

	id := NewOperationID()
	ran := ""
	store.RegisterUndo(id, func() { ran = "first" })
	store.RegisterUndo(id, func() { ran = "second" })
	observer.Sync()

	assert.Equal(t, 1, store.Len())
	assert.EqualValues(t, 1, counter.count.Load())
	store.Undo()
	assert.Equal(t, "first", ran)
}

func TestUndoStoreRegisterRecover(t *testing.T) {
	store, observer, counter := newTestUndoStore(t)

	id := NewOperationID()
	store.RegisterUndo(id, func() {})
	store.RegisterRecover(id, func() {})
	store.RegisterRecover(NewOperationID(), func() {})
	observer.Sync()

	assert.Equal(t, 1, store.Len())
	assert.EqualValues(t, 2, counter.count.Load())
}

func TestUndoStoreResetDrainsInReverseOrder(t *testing.T) {
	store, observer, counter := newTestUndoStore(t)

	const n = 5
	var order []int
	for i := 0; i < n; i++ {
		i := i
		store.RegisterUndo(NewOperationID(), func() { order = append(order, i) })
	}
	observer.Sync()
	before := counter.count.Load()

	store.Reset()
	observer.Sync()

	assert.Equal(t, []int{4, 3, 2, 1, 0}, order)
	assert.False(t, store.CanUndo())
	assert.EqualValues(t, 1, counter.count.Load()-before)
}

func TestUndoStoreRedo(t *testing.T) {
	store, _, _ := newTestUndoStore(t)

	state := "after"
	id := NewOperationID()
	store.RegisterUndo(id, func() { state = "before" })
	store.RegisterRecover(id, func() { state = "after" })

	store.Undo()
	assert.Equal(t, "before", state)
	assert.True(t, store.CanRedo())
	assert.False(t, store.CanUndo())

	store.Redo()
	assert.Equal(t, "after", state)
	assert.False(t, store.CanRedo())
	assert.True(t, store.CanUndo())

	store.Undo()
	assert.Equal(t, "before", state)
}

func TestUndoStoreUndoWithoutRecoverIsNotRedoable(t *testing.T) {
	store, _, _ := newTestUndoStore(t)

	store.RegisterUndo(NewOperationID(), func() {})
	store.Undo()
	assert.False(t, store.CanRedo())
}

func TestUndoStoreRegisterUndoClearsRedo(t *testing.T) {
	store, _, _ := newTestUndoStore(t)

	id := NewOperationID()
	store.RegisterUndo(id, func() {})
	store.RegisterRecover(id, func() {})
	store.Undo()
	require.True(t, store.CanRedo())

	store.RegisterUndo(NewOperationID(), func() {})
	assert.False(t, store.CanRedo())
}

func TestUndoStoreRecoverByID(t *testing.T) {
	store, _, _ := newTestUndoStore(t)

	id := NewOperationID()
	recovered := 0
	store.RegisterUndo(id, func() {})
	store.RegisterRecover(id, func() { recovered++ })

	store.Undo()
	action, ok := store.RecoverAction(id)
	require.True(t, ok)
	action()
	assert.True(t, store.Recover(id))
	assert.Equal(t, 2, recovered)

	// lookups leave the stacks alone
	assert.True(t, store.CanRedo())
	assert.False(t, store.CanUndo())
	assert.False(t, store.Recover(NewOperationID()))
}

func TestUndoStoreUnregisterUndo(t *testing.T) {
	store, observer, counter := newTestUndoStore(t)

	id := NewOperationID()
	ran := false
	store.RegisterUndo(id, func() { ran = true })
	store.UnregisterUndo(id)
	store.UnregisterUndo(id)
	observer.Sync()

	assert.False(t, store.CanUndo())
	assert.EqualValues(t, 2, counter.count.Load())
	store.Undo()
	assert.False(t, ran)
}

func TestUndoStoreActionMayUseStore(t *testing.T) {
	store, _, _ := newTestUndoStore(t)

	var canUndo bool
	store.RegisterUndo(NewOperationID(), func() {})
	store.RegisterUndo(NewOperationID(), func() { canUndo = store.CanUndo() })
	store.Undo()
	assert.True(t, canUndo)
}

func TestUndoStoreOwnsObserver(t *testing.T) {
	store := NewUndoStore(nil)
	counter := &historyCounter{}
	store.SetDelegate(counter)

	store.RegisterUndo(NewOperationID(), func() {})
	store.Close()
	assert.EqualValues(t, 1, counter.count.Load())
}
