// File: core/concurrency/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor dispatches tasks across worker goroutines, using per-worker
// lock-free local queues with a shared overflow queue. wg.Done is called
// only after a worker has been completely stopped and removed, so Resize
// is safe to call concurrently with task submission.

package concurrency

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-ws/api"
)

// TaskFunc is an alias (not a distinct defined type) so Executor's methods
// match api.Executor's signatures exactly, letting Executor satisfy it
// without a wrapper.
type TaskFunc = func()

var _ api.Executor = (*Executor)(nil)
var _ api.GracefulShutdown = (*Executor)(nil)

// Executor manages a pool of worker goroutines.
type Executor struct {
	overflow      *queue.Queue
	overflowMu    sync.Mutex
	overflowCond  *sync.Cond
	localQueues   []*LockFreeQueue[TaskFunc]
	workers       []*worker
	closeCh       chan struct{}
	closed        atomic.Bool
	resizeRequest chan int
	mu            sync.Mutex
	wg            sync.WaitGroup
	next          atomic.Uint64
}

// NewExecutor creates a new Executor with the given number of workers.
// numWorkers<=0 defaults to runtime.NumCPU().
func NewExecutor(numWorkers int) *Executor {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	e := &Executor{
		overflow:      queue.New(),
		closeCh:       make(chan struct{}),
		resizeRequest: make(chan int),
	}
	e.overflowCond = sync.NewCond(&e.overflowMu)
	e.localQueues = make([]*LockFreeQueue[TaskFunc], numWorkers)
	e.workers = make([]*worker, numWorkers)
	for i := 0; i < numWorkers; i++ {
		e.localQueues[i] = NewLockFreeQueue[TaskFunc](1024)
	}
	for i := 0; i < numWorkers; i++ {
		w := &worker{id: i, executor: e, localQueue: e.localQueues[i], stopCh: make(chan struct{}), stoppedCh: make(chan struct{})}
		e.workers[i] = w
		e.wg.Add(1)
		go w.run(&e.wg)
	}
	go e.manageResizes()
	return e
}

// Submit enqueues a task. Returns ErrExecutorClosed if closed.
func (e *Executor) Submit(task TaskFunc) error {
	if e.closed.Load() {
		return ErrExecutorClosed
	}
	idx := int(e.next.Add(1)) % len(e.localQueues)
	if e.localQueues[idx].Enqueue(task) {
		return nil
	}
	e.overflowMu.Lock()
	e.overflow.Add(task)
	e.overflowCond.Signal()
	e.overflowMu.Unlock()
	return nil
}

// Resize dynamically scales the worker pool. newCount<=0 is rejected and
// logged rather than silently clamped.
func (e *Executor) Resize(newCount int) {
	if newCount <= 0 {
		fmt.Fprintf(os.Stderr, "concurrency: Resize(%d): %v\n", newCount, ErrInvalidWorkerCount)
		return
	}
	e.resizeRequest <- newCount
}

// manageResizes handles dynamic scaling for workers, ensuring proper
// shutdown and removal before truncating the worker/queue slices.
func (e *Executor) manageResizes() {
	for newCount := range e.resizeRequest {
		e.mu.Lock()
		current := len(e.workers)
		if newCount > current {
			for i := current; i < newCount; i++ {
				q := NewLockFreeQueue[TaskFunc](1024)
				e.localQueues = append(e.localQueues, q)
				w := &worker{id: i, executor: e, localQueue: q, stopCh: make(chan struct{}), stoppedCh: make(chan struct{})}
				e.workers = append(e.workers, w)
				e.wg.Add(1)
				go w.run(&e.wg)
			}
		} else if newCount < current {
			for i := newCount; i < current; i++ {
				close(e.workers[i].stopCh)
			}
			for i := newCount; i < current; i++ {
				<-e.workers[i].stoppedCh
			}
			e.workers = e.workers[:newCount]
			e.localQueues = e.localQueues[:newCount]
		}
		e.mu.Unlock()
	}
}

// Close shuts down the executor, waiting for workers to finish.
func (e *Executor) Close() {
	if e.closed.CompareAndSwap(false, true) {
		close(e.closeCh)
		close(e.resizeRequest)
		e.mu.Lock()
		for _, w := range e.workers {
			close(w.stopCh)
		}
		e.mu.Unlock()
		e.overflowMu.Lock()
		e.overflowCond.Broadcast()
		e.overflowMu.Unlock()
		e.wg.Wait()
	}
}

// Shutdown implements api.GracefulShutdown by stopping every worker and
// waiting for them to drain.
func (e *Executor) Shutdown() error {
	e.Close()
	return nil
}

// SubmitHandler adapts an api.Handler into a task the Executor can run,
// so callers that model work as Handler.Handle(data) can still dispatch
// it through the worker pool.
func (e *Executor) SubmitHandler(h api.Handler, data any) error {
	return e.Submit(func() { _ = h.Handle(data) })
}

// NumWorkers returns active worker count.
func (e *Executor) NumWorkers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.workers)
}

// worker runs tasks from its local queue, falling back to the shared
// overflow queue, and signals stoppedCh only after it has fully exited so
// Resize can safely truncate the workers slice.
type worker struct {
	id         int
	executor   *Executor
	localQueue *LockFreeQueue[TaskFunc]
	stopCh     chan struct{}
	stoppedCh  chan struct{}
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer func() {
		wg.Done()
		close(w.stoppedCh)
	}()
	idleSince := time.Now()
	for {
		select {
		case <-w.stopCh:
			return
		default:
		}
		if task, ok := w.localQueue.Dequeue(); ok {
			w.safeExecute(task)
			idleSince = time.Now()
			continue
		}
		if task, ok := w.executor.dequeueOverflow(); ok {
			w.safeExecute(task)
			idleSince = time.Now()
			continue
		}
		if time.Since(idleSince) > time.Millisecond {
			time.Sleep(time.Millisecond)
		}
		select {
		case <-w.stopCh:
			return
		default:
		}
	}
}

func (e *Executor) dequeueOverflow() (TaskFunc, bool) {
	e.overflowMu.Lock()
	defer e.overflowMu.Unlock()
	if e.overflow.Length() == 0 {
		return nil, false
	}
	v := e.overflow.Remove()
	task, _ := v.(TaskFunc)
	return task, task != nil
}

func (w *worker) safeExecute(task TaskFunc) {
	defer func() { _ = recover() }()
	task()
}
