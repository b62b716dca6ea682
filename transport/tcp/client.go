// File: transport/tcp/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tcp

import (
	"crypto/rand"
	"net"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/core/buffer"
)

// Client is a connection-oriented TCP endpoint: Idle -> Connecting ->
// Connected -> Disconnecting -> Disconnected, with reconnect at the
// application's discretion.
type Client struct {
	id     api.ID
	cfg    Config
	hooks  Hooks
	disp   *dispatcher
	connMu sync.Mutex // guards conn/state/connecting during Connect/Disconnect

	conn       api.NetConn
	state      atomic.Int32
	connecting atomic.Bool

	send *buffer.SendBuffer
	recv *buffer.RecvBuffer

	bytesSent     atomic.Uint64
	bytesReceived atomic.Uint64

	readDone chan struct{}
}

// NewClient constructs an idle Client. Connect or ConnectAsync starts it.
func NewClient(cfg Config, hooks Hooks) *Client {
	var id api.ID
	_, _ = rand.Read(id[:])
	return &Client{
		id:    id,
		cfg:   cfg,
		hooks: hooks,
		disp:  newDispatcher(cfg),
		send:  buffer.NewSendBuffer(),
		recv:  buffer.NewRecvBuffer(),
	}
}

// ID returns the client's opaque identifier.
func (c *Client) ID() api.ID { return c.id }

// State returns the current connection state.
func (c *Client) State() api.ConnState { return api.ConnState(c.state.Load()) }

// Connected reports whether the socket is open and teardown has not yet
// started.
func (c *Client) Connected() bool { return c.State() == api.StateConnected }

// Connect dials addr synchronously. At most one Connect/ConnectAsync may
// be pending at a time; a second call while connecting returns false.
func (c *Client) Connect(addr string) bool {
	if !c.connecting.CompareAndSwap(false, true) {
		return false
	}
	defer c.connecting.Store(false)

	c.state.Store(int32(api.StateConnecting))
	if c.hooks.OnConnecting != nil {
		c.disp.run(c.hooks.OnConnecting)
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		c.state.Store(int32(api.StateIdle))
		c.reportError(api.CategorySocket, err)
		return false
	}
	applySocketOptions(conn, c.cfg.Options, func(err error) { c.reportError(api.CategorySocket, err) })

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	c.send.Reset()
	c.recv = buffer.NewRecvBuffer()
	c.bytesSent.Store(0)
	c.bytesReceived.Store(0)

	c.state.Store(int32(api.StateConnected))
	c.readDone = make(chan struct{})
	go c.readLoop(conn, c.readDone)

	if c.hooks.OnConnected != nil {
		c.disp.run(c.hooks.OnConnected)
	}
	return true
}

// ConnectAsync dials addr on a new goroutine and returns immediately.
func (c *Client) ConnectAsync(addr string) {
	go c.Connect(addr)
}

// Send appends buf to the send buffer and returns bytes_pending (including
// the just-appended bytes). Returns 0 if not connected.
func (c *Client) Send(buf []byte) int {
	if !c.Connected() {
		return 0
	}
	n := c.send.Append(buf)
	c.flush()
	return n
}

// flush attempts to swap main into flush and submit a write; a no-op if a
// write is already outstanding or nothing is pending.
func (c *Client) flush() {
	toSend, ok := c.send.TrySwap()
	if !ok {
		return
	}
	go c.writeLoop(toSend)
}

func (c *Client) writeLoop(toSend []byte) {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return
	}
	for {
		n, err := conn.Write(toSend)
		if n > 0 {
			remaining, drained := c.send.Advance(n)
			if c.hooks.OnSent != nil {
				pending := c.send.Pending()
				sentSoFar := n
				c.disp.run(func() { c.hooks.OnSent(sentSoFar, pending) })
			}
			c.bytesSent.Add(uint64(n))
			if drained {
				if c.hooks.OnEmpty != nil {
					c.disp.run(c.hooks.OnEmpty)
				}
				c.flush()
				return
			}
			toSend = remaining
		}
		if err != nil {
			c.handleIOError(err)
			return
		}
	}
}

func (c *Client) readLoop(conn api.NetConn, done chan struct{}) {
	defer close(done)
	for {
		buf := c.recv.Slice()
		n, err := conn.Read(buf)
		if n > 0 {
			c.bytesReceived.Add(uint64(n))
			payload := append([]byte(nil), buf[:n]...)
			if c.hooks.OnReceived != nil {
				c.disp.run(func() { c.hooks.OnReceived(payload) })
			}
			c.recv.GrowIfFull(n)
		}
		if err != nil {
			c.handleIOError(err)
			return
		}
	}
}

func (c *Client) handleIOError(err error) {
	if api.IsDisconnectClass(err) {
		c.teardown()
		return
	}
	c.reportError(api.CategorySocket, err)
	c.teardown()
}

func (c *Client) reportError(cat api.ErrorCategory, err error) {
	if err == nil {
		return
	}
	if c.hooks.OnError != nil {
		c.disp.run(func() { c.hooks.OnError(api.ErrCodeInternal, cat, err.Error()) })
	}
}

// Disconnect tears down the connection. If dispatch is true, teardown runs
// via the client's dispatcher (e.g. a strand); otherwise it runs inline.
func (c *Client) Disconnect(dispatch bool) {
	if dispatch {
		c.disp.run(c.teardown)
		return
	}
	c.teardown()
}

func (c *Client) teardown() {
	for {
		old := api.ConnState(c.state.Load())
		if old == api.StateDisconnecting || old == api.StateDisconnected || old == api.StateIdle {
			return // already torn down, in progress, or never connected
		}
		if c.state.CompareAndSwap(int32(old), int32(api.StateDisconnecting)) {
			break
		}
	}
	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.connMu.Unlock()
	if conn != nil {
		conn.Close()
	}
	c.send.Reset()
	c.state.Store(int32(api.StateDisconnected))
	if c.hooks.OnDisconnected != nil {
		c.disp.run(c.hooks.OnDisconnected)
	}
}

// Reconnect disconnects (if connected), waits for teardown, then connects
// again to addr.
func (c *Client) Reconnect(addr string) bool {
	if c.Connected() {
		c.Disconnect(false)
	}
	return c.Connect(addr)
}

// BytesSent returns the lifetime byte count written to the socket since
// the last successful connect.
func (c *Client) BytesSent() uint64 { return c.bytesSent.Load() }

// BytesReceived returns the lifetime byte count read from the socket since
// the last successful connect.
func (c *Client) BytesReceived() uint64 { return c.bytesReceived.Load() }

// Close releases the dispatcher's strand, if any. Call after Disconnect.
func (c *Client) Close() {
	c.disp.close()
}
