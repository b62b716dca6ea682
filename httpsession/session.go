// File: httpsession/session.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpsession

import (
	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/httpmsg"
	"github.com/momentics/hioload-ws/transport/tcp"
)

// Session wraps one accepted tcp.Session with its own HTTP request parser,
// so each connection accumulates request state independently even though
// the underlying tcp.Server's Hooks are shared.
type Session struct {
	tcp    *tcp.Session
	server *Server
	driver *driver
}

// ID returns the session's opaque identifier.
func (s *Session) ID() api.ID { return s.tcp.ID() }

// Disconnect tears down the underlying connection.
func (s *Session) Disconnect() { s.tcp.Disconnect() }

// Underlying exposes the wrapped tcp.Session for advanced use (e.g.
// WebSocket upgrade).
func (s *Session) Underlying() *tcp.Session { return s.tcp }

// SendResponse builds an HTTP response and appends it to the session's
// send buffer.
func (s *Session) SendResponse(status int, headers [][2]string, body []byte) int {
	resp := httpmsg.NewResponse()
	resp.SetStatusLine("HTTP/1.1", status, "")
	for _, h := range headers {
		resp.SetHeader(h[0], h[1])
	}
	if body != nil {
		resp.SetBody(body)
	} else {
		resp.Close()
	}
	return s.tcp.Send(resp.Bytes())
}

// SendCachedResponse serves a precomputed response (e.g. status line,
// headers, and body already assembled) directly, bypassing the builder.
func (s *Session) SendCachedResponse(wire []byte) int { return s.tcp.Send(wire) }
