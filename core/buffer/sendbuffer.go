// File: core/buffer/sendbuffer.go
// Package buffer implements the dual-buffer send-coalescing scheme shared by
// the TCP client and server session.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package buffer

import "sync"

// SendBuffer coalesces producer writes into a single outstanding socket
// write at a time. Producers append to main under a lock; the writer swaps
// main into flush once flush has drained, then submits flush[offset:] to
// the socket. At most one of main/flush ever holds "in-flight" bytes: the
// writer is the only goroutine that touches flush, so it needs no lock.
type SendBuffer struct {
	mu   sync.Mutex
	main []byte

	flush       []byte
	flushOffset int
	sending     bool
}

// NewSendBuffer returns an empty SendBuffer.
func NewSendBuffer() *SendBuffer {
	return &SendBuffer{}
}

// Append adds buf to the main buffer and returns the new bytes-pending
// count (main.size() after the append).
func (b *SendBuffer) Append(buf []byte) int {
	b.mu.Lock()
	b.main = append(b.main, buf...)
	n := len(b.main)
	b.mu.Unlock()
	return n
}

// Pending reports bytes_pending: the current size of main.
func (b *SendBuffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.main)
}

// Sending reports bytes_sending: the unflushed tail of flush.
func (b *SendBuffer) Sending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.flush) - b.flushOffset
}

// IsSending reports whether a write is currently outstanding.
func (b *SendBuffer) IsSending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sending
}

// TrySwap swaps main into flush if flush has fully drained and no write is
// outstanding, and returns the bytes now ready to submit. It reports false
// if there is nothing to send or a write is already outstanding; the caller
// must not submit a write in that case.
func (b *SendBuffer) TrySwap() (toSend []byte, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sending || b.flushOffset < len(b.flush) {
		return nil, false
	}
	if len(b.main) == 0 {
		return nil, false
	}
	b.flush, b.main = b.main, b.flush[:0]
	b.flushOffset = 0
	b.sending = true
	return b.flush, true
}

// Advance records a partial write of n bytes against flush. It returns the
// remaining unsent slice of flush and whether flush has fully drained.
func (b *SendBuffer) Advance(n int) (remaining []byte, drained bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushOffset += n
	if b.flushOffset >= len(b.flush) {
		b.flush = b.flush[:0]
		b.flushOffset = 0
		b.sending = false
		return nil, true
	}
	return b.flush[b.flushOffset:], false
}

// Reset clears both buffers and counters; used on disconnect.
func (b *SendBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.main = b.main[:0]
	b.flush = b.flush[:0]
	b.flushOffset = 0
	b.sending = false
}
