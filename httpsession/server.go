// File: httpsession/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpsession

import (
	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/httpmsg"
	"github.com/momentics/hioload-ws/transport/tcp"
)

// ServerHooks are the HTTP-level events a Server raises, mirroring
// tcp.ServerHooks but carrying the owning Session and parsed Message.
type ServerHooks struct {
	OnSessionConnected func(*Session)
	OnHeaderReceived   func(*Session, *httpmsg.Message)
	OnRequestReceived  func(*Session, *httpmsg.Message)
	OnRequestError     func(*Session, *httpmsg.Message, string)
	OnDisconnected     func(*Session)
}

// Server layers HTTP request parsing on a tcp.Server: every accepted
// session gets its own driver so independent connections never share
// parser state, and GET requests are served from Cache before reaching
// OnRequestReceived.
type Server struct {
	tcp   *tcp.Server
	hooks ServerHooks
	Cache *ResponseCache // optional; nil disables the GET response cache
}

// NewServer constructs an HTTP server. Call Listen to start accepting.
func NewServer(cfg tcp.Config, tcpErrorHook api.OnErrorFunc, hooks ServerHooks) *Server {
	srv := &Server{hooks: hooks}
	srv.tcp = tcp.NewServer(cfg, tcp.ServerHooks{
		Hooks: tcp.Hooks{
			OnError: tcpErrorHook,
		},
		OnSessionConnected: func(ts *tcp.Session) {
			hs := &Session{tcp: ts, server: srv}
			hs.driver = newDriver(true, Hooks{
				OnHeaderReceived: func(msg *httpmsg.Message) {
					if srv.hooks.OnHeaderReceived != nil {
						srv.hooks.OnHeaderReceived(hs, msg)
					}
				},
				OnMessageReceived: func(msg *httpmsg.Message) {
					if srv.Cache != nil && msg.Method() == "GET" {
						if cached, ok := srv.Cache.Lookup(msg.URL()); ok {
							hs.SendCachedResponse(cached)
							return
						}
					}
					if srv.hooks.OnRequestReceived != nil {
						srv.hooks.OnRequestReceived(hs, msg)
					}
				},
				OnMessageError: func(msg *httpmsg.Message, reason string) {
					if srv.hooks.OnRequestError != nil {
						srv.hooks.OnRequestError(hs, msg, reason)
					}
				},
			})
			ts.SetHooks(tcp.Hooks{
				OnReceived: func(buf []byte) {
					if hs.driver.Feed(buf) {
						ts.Disconnect()
					}
				},
				OnDisconnected: func() {
					hs.driver.Disconnected()
					if srv.hooks.OnDisconnected != nil {
						srv.hooks.OnDisconnected(hs)
					}
				},
				OnError: tcpErrorHook,
			})
			if srv.hooks.OnSessionConnected != nil {
				srv.hooks.OnSessionConnected(hs)
			}
		},
	})
	return srv
}

// Listen opens addr and starts accepting HTTP connections.
func (srv *Server) Listen(addr string) error { return srv.tcp.Listen(addr) }

// Shutdown stops accepting and disconnects every session.
func (srv *Server) Shutdown() error { return srv.tcp.Shutdown() }

// Underlying exposes the wrapped tcp.Server for advanced use.
func (srv *Server) Underlying() *tcp.Server { return srv.tcp }
