// File: core/concurrency/strand.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Strand is a serial execution context that runs beside the Executor's
// worker pool on its own goroutine: tasks submitted to the same Strand run
// in submission order and never concurrently, while the Executor is free
// to run unrelated tasks on any worker. It is a buffered inbox channel
// drained by that one goroutine, with an adaptive backoff while idle.

package concurrency

import (
	"fmt"
	"os"
	"time"
)

// Strand serializes TaskFunc execution for one logical owner (a session).
type Strand struct {
	inbox  chan TaskFunc
	quitCh chan struct{}
	doneCh chan struct{}
}

// NewStrand creates a Strand with the given inbox capacity and starts its
// drain loop. A Strand owns one dedicated goroutine rather than borrowing
// one of the Executor's fixed workers: goroutines are cheap in Go, and a
// worker parked forever draining one strand would starve its own local
// queue, defeating the pool.
func NewStrand(capacity int) *Strand {
	s := &Strand{
		inbox:  make(chan TaskFunc, capacity),
		quitCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go s.run()
	return s
}

// Post enqueues a task for serialized execution. Non-blocking; returns
// false if the strand's inbox is full or the strand has been closed.
func (s *Strand) Post(task TaskFunc) bool {
	select {
	case <-s.quitCh:
		fmt.Fprintf(os.Stderr, "concurrency: Strand.Post: %v\n", ErrRuntimeStopped)
		return false
	default:
	}
	select {
	case s.inbox <- task:
		return true
	default:
		return false
	}
}

// Close stops accepting new tasks and waits for the drain loop to exit
// after the inbox empties.
func (s *Strand) Close() {
	select {
	case <-s.quitCh:
	default:
		close(s.quitCh)
	}
	<-s.doneCh
}

// run drains the inbox in submission order until quitCh closes and the
// inbox is empty, backing off with increasing sleeps when idle so it does
// not spin a worker goroutine for an inactive session.
func (s *Strand) run() {
	defer close(s.doneCh)
	backoff := time.Microsecond
	const maxBackoff = time.Millisecond
	for {
		select {
		case task := <-s.inbox:
			safeRun(task)
			backoff = time.Microsecond
			continue
		default:
		}
		select {
		case task := <-s.inbox:
			safeRun(task)
			backoff = time.Microsecond
		case <-s.quitCh:
			// Drain whatever remains before exiting.
			for {
				select {
				case task := <-s.inbox:
					safeRun(task)
				default:
					return
				}
			}
		case <-time.After(backoff):
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}

func safeRun(task TaskFunc) {
	defer func() { _ = recover() }()
	task()
}
