package painting

import (
	"fmt"
	"sync"
)

// DispatchQueue runs tasks one at a time on a dedicated goroutine in the
// order they were posted. It backs the render context, the observer
// thread of the history and the slice persistence queue.
type DispatchQueue struct {
	name string

	mutex    sync.Mutex
	cond     *sync.Cond
	tasks    []func()
	isClosed bool
	stopped  chan struct{}
}

// NewDispatchQueue creates a queue and starts its worker
func NewDispatchQueue(name string) *DispatchQueue {
	queue := &DispatchQueue{
		name:    name,
		stopped: make(chan struct{}),
	}
	queue.cond = sync.NewCond(&queue.mutex)
	go queue.run()
	return queue
}

// Name returns the queue name
func (queue *DispatchQueue) Name() string {
	return queue.name
}

// Post enqueues a task without waiting for it. It returns false when the
// queue is already closed; the task is dropped in that case.
func (queue *DispatchQueue) Post(task func()) bool {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	if queue.isClosed {
		componentLogger("dispatch").WithField("queue", queue.name).
			Warn("task posted to a closed queue was dropped")
		return false
	}

	queue.tasks = append(queue.tasks, task)
	queue.cond.Signal()
	return true
}

// Sync blocks until every task posted before the call has finished.
// Calling Sync from a task of the same queue deadlocks.
func (queue *DispatchQueue) Sync() {
	done := make(chan struct{})
	if !queue.Post(func() { close(done) }) {
		return
	}
	<-done
}

// Close runs the tasks that are still pending and stops the worker.
func (queue *DispatchQueue) Close() {
	queue.mutex.Lock()
	if !queue.isClosed {
		queue.isClosed = true
		queue.cond.Signal()
	}
	queue.mutex.Unlock()

	<-queue.stopped
}

func (queue *DispatchQueue) run() {
	defer close(queue.stopped)

	for {
		task := queue.next()
		if task == nil {
			return
		}
		queue.perform(task)
	}
}

func (queue *DispatchQueue) next() func() {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	for len(queue.tasks) == 0 {
		if queue.isClosed {
			return nil
		}
		queue.cond.Wait()
	}

	task := queue.tasks[0]
	queue.tasks[0] = nil
	queue.tasks = queue.tasks[1:]
	return task
}

func (queue *DispatchQueue) perform(task func()) {
	defer func() {
		if r := recover(); r != nil {
			componentLogger("dispatch").WithField("queue", queue.name).
				WithError(fmt.Errorf("%v", r)).Error("task panicked")
		}
	}()
	task()
}
