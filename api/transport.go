// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines the socket abstraction consumed by the TCP, HTTP, and WebSocket
// layers, decoupling them from net.Conn so tests can substitute fakes.

package api

// NetConn abstracts a full-duplex byte-stream connection. net.Conn
// satisfies this interface directly.
type NetConn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
}

// SocketOptions are the advisory, best-effort socket options an endpoint
// may request pre-connect/pre-listen.
type SocketOptions struct {
	NoDelay           bool
	ReuseAddress      bool
	ReusePort         bool
	ReceiveBufferSize int
	SendBufferSize    int
	KeepAlive         bool
}

