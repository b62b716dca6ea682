// File: transport/tcp/session.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tcp

import (
	"net"
	"sync/atomic"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/core/buffer"
)

// Session wraps one accepted socket. It owns the same dual-buffer send
// pipeline as Client and dispatches reads as OnReceived. The receive
// buffer auto-grows: a read that fills it doubles its capacity before the
// next read.
type Session struct {
	id     api.ID
	server *Server
	conn   api.NetConn
	disp   *dispatcher
	hooks  Hooks

	state atomic.Int32

	send *buffer.SendBuffer
	recv *buffer.RecvBuffer

	bytesSent     atomic.Uint64
	bytesReceived atomic.Uint64
}

func newSession(id api.ID, srv *Server, conn net.Conn) *Session {
	s := &Session{
		id:     id,
		server: srv,
		conn:   conn,
		disp:   newDispatcher(srv.cfg),
		hooks:  srv.hooks,
		send:   buffer.NewSendBuffer(),
		recv:   buffer.NewRecvBuffer(),
	}
	s.state.Store(int32(api.StateConnected))
	return s
}

// ID returns the session's opaque identifier, the server registry's key.
func (s *Session) ID() api.ID { return s.id }

// SetHooks replaces this session's hook set. Call from ServerHooks.
// OnSessionConnected, before the accept loop starts the read goroutine, to
// give one session independent state (e.g. its own protocol driver)
// instead of sharing the server's hooks with every other session.
func (s *Session) SetHooks(h Hooks) { s.hooks = h }

// State returns the current connection state.
func (s *Session) State() api.ConnState { return api.ConnState(s.state.Load()) }

// Connected reports whether the session is still registered and live.
func (s *Session) Connected() bool { return s.State() == api.StateConnected }

// Send appends buf to the session's send buffer and returns bytes_pending.
// Returns 0 if the session is no longer connected.
func (s *Session) Send(buf []byte) int {
	if !s.Connected() {
		return 0
	}
	n := s.send.Append(buf)
	s.flush()
	return n
}

func (s *Session) flush() {
	toSend, ok := s.send.TrySwap()
	if !ok {
		return
	}
	go s.writeLoop(toSend)
}

func (s *Session) writeLoop(toSend []byte) {
	for {
		n, err := s.conn.Write(toSend)
		if n > 0 {
			remaining, drained := s.send.Advance(n)
			if s.hooks.OnSent != nil {
				pending := s.send.Pending()
				sentSoFar := n
				s.disp.run(func() { s.hooks.OnSent(sentSoFar, pending) })
			}
			s.bytesSent.Add(uint64(n))
			if drained {
				if s.hooks.OnEmpty != nil {
					s.disp.run(s.hooks.OnEmpty)
				}
				s.flush()
				return
			}
			toSend = remaining
		}
		if err != nil {
			s.handleIOError(err)
			return
		}
	}
}

func (s *Session) readLoop() {
	for {
		buf := s.recv.Slice()
		n, err := s.conn.Read(buf)
		if n > 0 {
			s.bytesReceived.Add(uint64(n))
			payload := append([]byte(nil), buf[:n]...)
			if s.hooks.OnReceived != nil {
				s.disp.run(func() { s.hooks.OnReceived(payload) })
			}
			s.recv.GrowIfFull(n)
		}
		if err != nil {
			s.handleIOError(err)
			return
		}
	}
}

func (s *Session) handleIOError(err error) {
	if !api.IsDisconnectClass(err) && s.hooks.OnError != nil {
		s.disp.run(func() { s.hooks.OnError(api.ErrCodeInternal, api.CategorySocket, err.Error()) })
	}
	s.teardown()
}

// Disconnect tears the session down and unregisters it from the server.
func (s *Session) Disconnect() {
	s.teardown()
}

func (s *Session) teardown() {
	for {
		old := api.ConnState(s.state.Load())
		if old == api.StateDisconnecting || old == api.StateDisconnected {
			return
		}
		if s.state.CompareAndSwap(int32(old), int32(api.StateDisconnecting)) {
			break
		}
	}
	s.conn.Close()
	s.server.registry.Delete(s.id)
	s.state.Store(int32(api.StateDisconnected))
	if s.hooks.OnDisconnected != nil {
		s.disp.run(s.hooks.OnDisconnected)
	}
	s.disp.close()
}

// BytesSent returns the lifetime byte count written to the socket.
func (s *Session) BytesSent() uint64 { return s.bytesSent.Load() }

// BytesReceived returns the lifetime byte count read from the socket.
func (s *Session) BytesReceived() uint64 { return s.bytesReceived.Load() }
