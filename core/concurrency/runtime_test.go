package concurrency

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRuntimeStartStopIdempotent(t *testing.T) {
	rt := NewRuntime(Options{Workers: 2})
	rt.Start()
	rt.Start() // no-op
	rt.Stop()
	rt.Stop() // no-op
}

func TestRuntimePostExecutesTask(t *testing.T) {
	rt := NewRuntime(Options{Workers: 2})
	rt.Start()
	defer rt.Stop()

	var done atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	if err := rt.Post(func() {
		done.Store(true)
		wg.Done()
	}); err != nil {
		t.Fatalf("Post: %v", err)
	}
	wg.Wait()
	if !done.Load() {
		t.Fatal("task did not run")
	}
}

func TestRuntimePostAfterStopFails(t *testing.T) {
	rt := NewRuntime(Options{Workers: 1})
	rt.Start()
	rt.Stop()
	if err := rt.Post(func() {}); err == nil {
		t.Fatal("expected error posting to stopped runtime")
	}
}

func TestStrandSerializesTasks(t *testing.T) {
	rt := NewRuntime(Options{Workers: 4})
	rt.Start()
	defer rt.Stop()

	strand := rt.NewStrand(64)
	defer strand.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		i := i
		for !strand.Post(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		}) {
			time.Sleep(time.Microsecond)
		}
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 50 {
		t.Fatalf("got %d tasks, want 50", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d, want %d (strand did not preserve submission order)", i, v, i)
		}
	}
}
