// File: internal/session/store.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Sharded, thread-safe registry mapping a connection's 128-bit identity to
// its owner's value (a TCP session, typically). Sharding by the id's FNV
// hash keeps accept-heavy workloads from serializing on one mutex.

package session

import (
	"hash/fnv"
	"sync"

	"github.com/momentics/hioload-ws/api"
)

// Manager is a concurrent id -> T registry. The zero value is not usable;
// construct with NewManager.
type Manager[T any] struct {
	shards []*shard[T]
	mask   uint32
}

type shard[T any] struct {
	mu    sync.RWMutex
	items map[api.ID]T
}

// NewManager constructs a registry with shardCount shards, rounded up to
// the next power of two; shardCount <= 0 selects 16 shards.
func NewManager[T any](shardCount int) *Manager[T] {
	if shardCount <= 0 {
		shardCount = 16
	}
	n := nextPowerOfTwo(uint32(shardCount))
	shards := make([]*shard[T], n)
	for i := range shards {
		shards[i] = &shard[T]{items: make(map[api.ID]T)}
	}
	return &Manager[T]{shards: shards, mask: n - 1}
}

func (m *Manager[T]) shardFor(id api.ID) *shard[T] {
	h := fnv.New32a()
	h.Write(id[:])
	return m.shards[h.Sum32()&m.mask]
}

// Store inserts or replaces the value for id.
func (m *Manager[T]) Store(id api.ID, v T) {
	sh := m.shardFor(id)
	sh.mu.Lock()
	sh.items[id] = v
	sh.mu.Unlock()
}

// Load fetches the value for id, if present.
func (m *Manager[T]) Load(id api.ID) (T, bool) {
	sh := m.shardFor(id)
	sh.mu.RLock()
	v, ok := sh.items[id]
	sh.mu.RUnlock()
	return v, ok
}

// Delete removes id from the registry. A no-op if id is absent.
func (m *Manager[T]) Delete(id api.ID) {
	sh := m.shardFor(id)
	sh.mu.Lock()
	delete(sh.items, id)
	sh.mu.Unlock()
}

// Range calls fn for every stored entry in unspecified order, stopping
// early if fn returns false. Range takes a snapshot per shard, so fn may
// safely call Store/Delete on the same Manager.
func (m *Manager[T]) Range(fn func(id api.ID, v T) bool) {
	for _, sh := range m.shards {
		sh.mu.RLock()
		snapshot := make(map[api.ID]T, len(sh.items))
		for k, v := range sh.items {
			snapshot[k] = v
		}
		sh.mu.RUnlock()
		for k, v := range snapshot {
			if !fn(k, v) {
				return
			}
		}
	}
}

// Len returns the total number of entries across all shards.
func (m *Manager[T]) Len() int {
	total := 0
	for _, sh := range m.shards {
		sh.mu.RLock()
		total += len(sh.items)
		sh.mu.RUnlock()
	}
	return total
}

// nextPowerOfTwo returns the next power-of-two >= v.
func nextPowerOfTwo(v uint32) uint32 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	return v
}
