// File: wssession/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wssession

import (
	"net"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/httpmsg"
	"github.com/momentics/hioload-ws/transport/tcp"
	"github.com/momentics/hioload-ws/wsproto"
)

// ServerHooks are the events a Server raises as sessions accept, upgrade,
// exchange frames, and disconnect.
type ServerHooks struct {
	OnSessionAccepted func(*Session) // raw TCP accept, before the upgrade handshake
	OnWSConnected     func(*Session, *httpmsg.Message)
	OnReceived        func(sess *Session, opcode byte, payload []byte)
	OnError           func(*Session, error)
	OnDisconnected    func(*Session)
}

// Server accepts TCP connections, performs the server-side WebSocket
// handshake on the first request of each, and dispatches subsequent
// frames through ServerHooks.
type Server struct {
	tcp   *tcp.Server
	hooks ServerHooks
}

// NewServer constructs a WebSocket server. Call Listen to start accepting.
func NewServer(cfg tcp.Config, tcpErrorHook api.OnErrorFunc, hooks ServerHooks) *Server {
	srv := &Server{hooks: hooks}
	srv.tcp = tcp.NewServer(cfg, tcp.ServerHooks{
		Hooks: tcp.Hooks{OnError: tcpErrorHook},
		OnSessionConnected: func(ts *tcp.Session) {
			ws := &Session{tcp: ts, server: srv, reqMsg: httpmsg.NewRequest()}
			ws.decoder = &wsproto.Decoder{
				OnData:    ws.onData,
				OnControl: ws.onControl,
				OnError:   ws.onProtocolError,
			}
			ts.SetHooks(tcp.Hooks{
				OnReceived:     ws.onReceived,
				OnDisconnected: ws.onDisconnected,
				OnError:        tcpErrorHook,
			})
			if srv.hooks.OnSessionAccepted != nil {
				srv.hooks.OnSessionAccepted(ws)
			}
		},
	})
	return srv
}

// Listen opens addr and starts accepting connections.
func (srv *Server) Listen(addr string) error { return srv.tcp.Listen(addr) }

// Addr returns the listener's bound address. Valid only after Listen.
func (srv *Server) Addr() net.Addr { return srv.tcp.Addr() }

// Shutdown stops accepting and disconnects every session.
func (srv *Server) Shutdown() error { return srv.tcp.Shutdown() }

// Underlying exposes the wrapped tcp.Server for advanced use.
func (srv *Server) Underlying() *tcp.Server { return srv.tcp }
