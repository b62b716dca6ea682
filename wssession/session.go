// File: wssession/session.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wssession

import (
	"sync/atomic"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/httpmsg"
	"github.com/momentics/hioload-ws/transport/tcp"
	"github.com/momentics/hioload-ws/wsproto"
)

// Session wraps one accepted tcp.Session through the server-side upgrade
// handshake and, once handshaked, routes its bytes through a
// wsproto.Decoder.
type Session struct {
	tcp     *tcp.Session
	server  *Server
	decoder *wsproto.Decoder

	handshaked atomic.Bool
	reqMsg     *httpmsg.Message
}

// ID returns the session's opaque identifier.
func (s *Session) ID() api.ID { return s.tcp.ID() }

// Handshaked reports whether the upgrade completed successfully.
func (s *Session) Handshaked() bool { return s.handshaked.Load() }

// Send frames payload as opcode and appends it to the send buffer.
// Server-side frames are always unmasked. Returns 0 before the handshake
// completes.
func (s *Session) Send(opcode byte, payload []byte) int {
	if !s.handshaked.Load() {
		return 0
	}
	frame, err := wsproto.EncodeFrame(opcode, true, payload, false)
	if err != nil {
		return 0
	}
	return s.tcp.Send(frame)
}

// SendText is a convenience wrapper around Send for OpcodeText.
func (s *Session) SendText(str string) int { return s.Send(wsproto.OpcodeText, []byte(str)) }

// Disconnect tears down the session.
func (s *Session) Disconnect() { s.tcp.Disconnect() }

// Underlying exposes the wrapped tcp.Session for advanced use.
func (s *Session) Underlying() *tcp.Session { return s.tcp }

func (s *Session) onReceived(buf []byte) {
	if s.handshaked.Load() {
		s.decoder.Feed(buf)
		return
	}
	if s.reqMsg.ReceiveHeader(buf) {
		key, err := wsproto.ValidateUpgradeRequest(s.reqMsg)
		if err != nil {
			s.failHandshake(err)
			return
		}
		s.tcp.Send(wsproto.BuildServerResponse(key))
		s.handshaked.Store(true)
		if s.server.hooks.OnWSConnected != nil {
			s.server.hooks.OnWSConnected(s, s.reqMsg)
		}
		if trailing := s.reqMsg.TrailingBytes(); len(trailing) > 0 {
			s.decoder.Feed(trailing)
		}
		return
	}
	if s.reqMsg.Error() {
		s.failHandshake(wsproto.ErrHandshakeFailed)
	}
}

func (s *Session) failHandshake(err error) {
	if s.server.hooks.OnError != nil {
		s.server.hooks.OnError(s, err)
	}
	s.tcp.Disconnect()
}

func (s *Session) onData(opcode byte, payload []byte) {
	if s.server.hooks.OnReceived != nil {
		s.server.hooks.OnReceived(s, opcode, payload)
	}
}

func (s *Session) onControl(opcode byte, payload []byte) {
	switch opcode {
	case wsproto.OpcodeClose:
		status, ok := wsproto.DecodeCloseStatus(payload)
		if !ok {
			status = wsproto.CloseNormalClosure
		}
		if frame, err := wsproto.EncodeCloseFrame(status, nil, false); err == nil {
			s.tcp.Send(frame)
		}
		s.tcp.Disconnect()
	case wsproto.OpcodePing:
		if frame, err := wsproto.EncodeFrame(wsproto.OpcodePong, true, payload, false); err == nil {
			s.tcp.Send(frame)
		}
	}
}

func (s *Session) onProtocolError(err error) {
	if s.server.hooks.OnError != nil {
		s.server.hooks.OnError(s, err)
	}
	if frame, ferr := wsproto.EncodeCloseFrame(wsproto.CloseProtocolError, nil, false); ferr == nil {
		s.tcp.Send(frame)
	}
	s.tcp.Disconnect()
}

func (s *Session) onDisconnected() {
	if s.server.hooks.OnDisconnected != nil {
		s.server.hooks.OnDisconnected(s)
	}
}
