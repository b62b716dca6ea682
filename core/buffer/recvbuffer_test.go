package buffer

import "testing"

func TestRecvBufferDefaultSize(t *testing.T) {
	r := NewRecvBuffer()
	if r.Len() != DefaultRecvBufferSize {
		t.Fatalf("Len = %d, want %d", r.Len(), DefaultRecvBufferSize)
	}
}

func TestRecvBufferGrowsOnlyWhenFull(t *testing.T) {
	r := NewRecvBuffer()
	r.GrowIfFull(DefaultRecvBufferSize - 1)
	if r.Len() != DefaultRecvBufferSize {
		t.Fatalf("Len after partial read = %d, want unchanged %d", r.Len(), DefaultRecvBufferSize)
	}
	r.GrowIfFull(DefaultRecvBufferSize)
	if r.Len() != DefaultRecvBufferSize*2 {
		t.Fatalf("Len after full read = %d, want doubled %d", r.Len(), DefaultRecvBufferSize*2)
	}
}
