// File: core/concurrency/runtime.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime is the shared I/O reactor/dispatch pool described by the Runtime
// component: a fixed pool of worker goroutines owns handler execution,
// with an optional per-session Strand (running on its own goroutine beside
// the pool) giving single-threaded semantics.

package concurrency

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-ws/api"
)

// Hooks are the optional lifecycle callbacks of a Runtime. Start submits
// OnThreadInit once per worker and then calls OnStarted; Stop calls
// OnStopped; ReportError calls OnError. OnThreadCleanup and OnIdle are
// stored but never called.
type Hooks struct {
	OnThreadInit    func()
	OnThreadCleanup func()
	OnStarted       func()
	OnStopped       func()
	OnIdle          func()
	OnError         api.OnErrorFunc
}

// Options configures a Runtime.
type Options struct {
	Workers int   // worker goroutine count; <=0 defaults to runtime.NumCPU()
	Polling bool  // stored only; workers behave the same either way and never call OnIdle
	Hooks   Hooks
}

// Runtime multiplexes task dispatch across a worker pool and exposes
// Strands for per-session serialized handler execution.
type Runtime struct {
	exec    *Executor
	opts    Options
	started atomic.Bool
	stopped atomic.Bool
	mu      sync.Mutex
	strands map[*Strand]struct{}
}

// NewRuntime constructs an idle Runtime. Call Start to launch workers.
func NewRuntime(opts Options) *Runtime {
	return &Runtime{opts: opts, strands: make(map[*Strand]struct{})}
}

// Start launches the worker pool. Idempotent: a second call is a no-op.
func (r *Runtime) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	r.exec = NewExecutor(r.opts.Workers)
	if r.opts.Hooks.OnThreadInit != nil {
		for i := 0; i < r.exec.NumWorkers(); i++ {
			r.exec.Submit(r.opts.Hooks.OnThreadInit)
		}
	}
	if r.opts.Hooks.OnStarted != nil {
		r.opts.Hooks.OnStarted()
	}
}

// Stop closes every strand created through NewStrand, closes the executor
// and joins all workers, and fails subsequent submissions. Idempotent.
func (r *Runtime) Stop() {
	if !r.started.Load() {
		return
	}
	if !r.stopped.CompareAndSwap(false, true) {
		return
	}
	r.mu.Lock()
	strands := make([]*Strand, 0, len(r.strands))
	for s := range r.strands {
		strands = append(strands, s)
	}
	r.mu.Unlock()
	for _, s := range strands {
		s.Close()
	}
	r.exec.Close()
	if r.opts.Hooks.OnStopped != nil {
		r.opts.Hooks.OnStopped()
	}
}

// Post schedules task for execution on the worker pool; always defers,
// even when called from a worker goroutine.
func (r *Runtime) Post(task TaskFunc) error {
	if r.stopped.Load() {
		return ErrRuntimeStopped
	}
	if !r.started.Load() {
		return api.ErrRuntimeNotStarted
	}
	return r.exec.Submit(task)
}

// Dispatch schedules task for execution on the worker pool; it never runs
// the task inline, even when called from a worker. The Runtime does not track per-
// goroutine pool membership (Go has no thread-local worker identity to
// key off), so Dispatch is conservative and behaves like Post; callers
// that know they already hold a strand's serialization should call the
// task directly instead of going through Dispatch.
func (r *Runtime) Dispatch(task TaskFunc) error {
	return r.Post(task)
}

// NewStrand creates and registers a new serialized dispatch queue.
func (r *Runtime) NewStrand(capacity int) *Strand {
	s := NewStrand(capacity)
	r.mu.Lock()
	r.strands[s] = struct{}{}
	r.mu.Unlock()
	return s
}

// ReportError forwards to the configured OnError hook, if any.
func (r *Runtime) ReportError(code api.ErrorCode, category api.ErrorCategory, message string) {
	if r.opts.Hooks.OnError != nil {
		r.opts.Hooks.OnError(code, category, message)
	}
}

// NumWorkers returns the current worker count (0 before Start).
func (r *Runtime) NumWorkers() int {
	if r.exec == nil {
		return 0
	}
	return r.exec.NumWorkers()
}
