// File: transport/tcp/options.go
// Package tcp implements the TCP client and multi-session server described
// by the core's TCP endpoint pair: non-blocking send coalescing, receive
// dispatch, and reconnect/multicast.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tcp

import (
	"net"
	"time"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/core/concurrency"
)

// applySocketOptions applies the advisory, best-effort socket options to a
// freshly dialed or accepted connection. Every option is best-effort: a
// platform that rejects one is logged via onErr, not treated as fatal.
func applySocketOptions(conn net.Conn, opts api.SocketOptions, onErr func(error)) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	report := func(err error) {
		if err != nil && onErr != nil {
			onErr(err)
		}
	}
	report(tc.SetNoDelay(opts.NoDelay))
	if opts.KeepAlive {
		report(tc.SetKeepAlive(true))
	}
	if opts.ReceiveBufferSize > 0 {
		report(tc.SetReadBuffer(opts.ReceiveBufferSize))
	}
	if opts.SendBufferSize > 0 {
		report(tc.SetWriteBuffer(opts.SendBufferSize))
	}
	// ReuseAddress/ReusePort apply to the listening socket, not a dialed
	// or accepted connection; the server wires them via net.ListenConfig.
}

// Hooks are the capability set an application supplies in place of
// subclassing: a struct of function values for every lifecycle event a
// TCP client or session can raise.
type Hooks struct {
	OnConnecting   func()
	OnConnected    func()
	OnDisconnected func()
	OnReceived     func(buf []byte)
	OnSent         func(size, pending int)
	OnEmpty        func()
	OnError        api.OnErrorFunc
}

// Config is shared by the client and the server: runtime wiring,
// serialization choice, and socket options.
type Config struct {
	Runtime       *concurrency.Runtime // optional; nil runs hooks inline
	StrandPerConn bool                 // if true and Runtime != nil, each connection gets a strand
	Options       api.SocketOptions
}

// dispatcher serializes hook invocations for one connection, either via a
// dedicated strand or by running them inline (relying on the single-
// outstanding-read/write invariant for ordering).
type dispatcher struct {
	strand *concurrency.Strand
}

func newDispatcher(cfg Config) *dispatcher {
	if cfg.Runtime != nil && cfg.StrandPerConn {
		return &dispatcher{strand: cfg.Runtime.NewStrand(256)}
	}
	return &dispatcher{}
}

func (d *dispatcher) run(fn func()) {
	if d.strand != nil {
		for !d.strand.Post(fn) {
			time.Sleep(time.Microsecond)
		}
		return
	}
	fn()
}

func (d *dispatcher) close() {
	if d.strand != nil {
		d.strand.Close()
	}
}
