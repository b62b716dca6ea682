// File: transport/tcp/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tcp

import (
	"context"
	"crypto/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/internal/session"
)

// ServerHooks extends Hooks with the one server-level event: a newly
// accepted, registered session.
type ServerHooks struct {
	Hooks
	OnSessionConnected func(*Session)
}

// Server opens a listening socket, accepts connections into Session
// values, and registers them in an id -> Session map keyed by each
// session's opaque identifier.
type Server struct {
	cfg      Config
	hooks    Hooks
	onAccept func(*Session)

	ln       net.Listener
	registry *session.Manager[*Session]

	multicastMu sync.Mutex

	accepting atomic.Bool
	wg        sync.WaitGroup
}

// NewServer constructs a Server. Call Listen to start accepting.
func NewServer(cfg Config, hooks ServerHooks) *Server {
	return &Server{
		cfg:      cfg,
		hooks:    hooks.Hooks,
		onAccept: hooks.OnSessionConnected,
		registry: session.NewManager[*Session](32),
	}
}

// Listen opens addr and runs the accept loop on a new goroutine.
// Non-fatal accept errors are reported via OnError and the loop continues.
func (srv *Server) Listen(addr string) error {
	lc := net.ListenConfig{Control: reuseAddrPortControl(srv.cfg.Options)}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	srv.ln = ln
	srv.accepting.Store(true)
	srv.wg.Add(1)
	go srv.acceptLoop()
	return nil
}

// Addr returns the listener's bound address. Valid only after Listen.
func (srv *Server) Addr() net.Addr {
	if srv.ln == nil {
		return nil
	}
	return srv.ln.Addr()
}

func (srv *Server) acceptLoop() {
	defer srv.wg.Done()
	for srv.accepting.Load() {
		conn, err := srv.ln.Accept()
		if err != nil {
			if !srv.accepting.Load() {
				return // listener closed during shutdown
			}
			if srv.hooks.OnError != nil {
				srv.hooks.OnError(api.ErrCodeInternal, api.CategorySocket, err.Error())
			}
			continue
		}
		applySocketOptions(conn, srv.cfg.Options, func(err error) {
			if srv.hooks.OnError != nil {
				srv.hooks.OnError(api.ErrCodeInternal, api.CategorySocket, err.Error())
			}
		})

		var id api.ID
		_, _ = rand.Read(id[:])
		sess := newSession(id, srv, conn)
		srv.registry.Store(id, sess)

		if srv.onAccept != nil {
			srv.onAccept(sess)
		}
		if sess.hooks.OnConnected != nil {
			sess.disp.run(sess.hooks.OnConnected)
		}
		go sess.readLoop()
	}
}

// Session looks up a registered session by id.
func (srv *Server) Session(id api.ID) (*Session, bool) {
	return srv.registry.Load(id)
}

// SessionCount returns the number of currently registered sessions.
func (srv *Server) SessionCount() int {
	return srv.registry.Len()
}

// Multicast serializes buf under the server's multicast lock and posts a
// send to every currently registered session. Delivery is best-effort per
// session: a session that has errored drops its slice when it disconnects.
// Multicast to zero sessions is a no-op.
func (srv *Server) Multicast(buf []byte) {
	srv.multicastMu.Lock()
	payload := append([]byte(nil), buf...)
	srv.multicastMu.Unlock()

	srv.registry.Range(func(_ api.ID, sess *Session) bool {
		sess.Send(payload)
		return true
	})
}

// DisconnectAll schedules disconnect on every registered session.
func (srv *Server) DisconnectAll() {
	srv.registry.Range(func(_ api.ID, sess *Session) bool {
		sess.Disconnect()
		return true
	})
}

// Shutdown stops accepting, disconnects all sessions, and waits for the
// registry to empty before returning.
func (srv *Server) Shutdown() error {
	if !srv.accepting.CompareAndSwap(true, false) {
		return nil
	}
	var err error
	if srv.ln != nil {
		err = srv.ln.Close()
	}
	srv.wg.Wait()
	srv.DisconnectAll()
	for srv.registry.Len() > 0 {
		time.Sleep(time.Millisecond)
	}
	return err
}
