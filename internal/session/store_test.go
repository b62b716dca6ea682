package session

import (
	"testing"

	"github.com/momentics/hioload-ws/api"
)

func TestManagerStoreLoadDelete(t *testing.T) {
	m := NewManager[int](4)
	var id api.ID
	id[0] = 1

	if _, ok := m.Load(id); ok {
		t.Fatal("expected empty registry to miss")
	}
	m.Store(id, 42)
	v, ok := m.Load(id)
	if !ok || v != 42 {
		t.Fatalf("Load = %d,%v want 42,true", v, ok)
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	m.Delete(id)
	if _, ok := m.Load(id); ok {
		t.Fatal("expected deleted entry to miss")
	}
	if m.Len() != 0 {
		t.Fatalf("Len after delete = %d, want 0", m.Len())
	}
}

func TestManagerRange(t *testing.T) {
	m := NewManager[string](8)
	for i := 0; i < 20; i++ {
		var id api.ID
		id[0] = byte(i)
		m.Store(id, "v")
	}
	count := 0
	m.Range(func(id api.ID, v string) bool {
		count++
		return true
	})
	if count != 20 {
		t.Fatalf("Range visited %d entries, want 20", count)
	}
}
