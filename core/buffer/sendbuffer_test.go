package buffer

import (
	"bytes"
	"testing"
)

func TestSendBufferAppendPending(t *testing.T) {
	b := NewSendBuffer()
	if n := b.Append([]byte("abc")); n != 3 {
		t.Fatalf("Append = %d, want 3", n)
	}
	if n := b.Append([]byte("de")); n != 5 {
		t.Fatalf("Append = %d, want 5", n)
	}
	if got := b.Pending(); got != 5 {
		t.Fatalf("Pending = %d, want 5", got)
	}
}

func TestSendBufferSwapDrainOrder(t *testing.T) {
	b := NewSendBuffer()
	b.Append([]byte("hello"))

	toSend, ok := b.TrySwap()
	if !ok {
		t.Fatal("expected swap to succeed")
	}
	if !bytes.Equal(toSend, []byte("hello")) {
		t.Fatalf("toSend = %q, want %q", toSend, "hello")
	}
	if b.Pending() != 0 {
		t.Fatalf("Pending after swap = %d, want 0", b.Pending())
	}
	if b.Sending() != 5 {
		t.Fatalf("Sending after swap = %d, want 5", b.Sending())
	}

	// A producer appending while the writer is mid-flush must not disturb flush.
	b.Append([]byte("world"))
	if _, ok := b.TrySwap(); ok {
		t.Fatal("TrySwap must refuse while a write is outstanding")
	}

	remaining, drained := b.Advance(2)
	if drained {
		t.Fatal("partial advance must not report drained")
	}
	if !bytes.Equal(remaining, []byte("llo")) {
		t.Fatalf("remaining = %q, want %q", remaining, "llo")
	}

	if _, drained = b.Advance(3); !drained {
		t.Fatal("full advance must report drained")
	}
	if b.IsSending() {
		t.Fatal("IsSending after full drain must be false")
	}

	toSend, ok = b.TrySwap()
	if !ok {
		t.Fatal("expected second swap to succeed once flush drained")
	}
	if !bytes.Equal(toSend, []byte("world")) {
		t.Fatalf("second toSend = %q, want %q", toSend, "world")
	}
}

func TestSendBufferReset(t *testing.T) {
	b := NewSendBuffer()
	b.Append([]byte("x"))
	b.TrySwap()
	b.Reset()
	if b.Pending() != 0 || b.Sending() != 0 || b.IsSending() {
		t.Fatal("Reset must clear pending, sending and the in-flight flag")
	}
}
