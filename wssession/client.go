// File: wssession/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wssession

import (
	"sync/atomic"

	"github.com/momentics/hioload-ws/httpmsg"
	"github.com/momentics/hioload-ws/transport/tcp"
	"github.com/momentics/hioload-ws/wsproto"
)

// Hooks are the WebSocket-level events a Client raises.
type Hooks struct {
	OnConnected    func(resp *httpmsg.Message)
	OnReceived     func(opcode byte, payload []byte)
	OnError        func(err error)
	OnDisconnected func()
}

// Client performs the RFC 6455 client handshake over a tcp.Client, then
// routes every subsequent received byte through a wsproto.Decoder.
type Client struct {
	tcp     *tcp.Client
	hooks   Hooks
	decoder *wsproto.Decoder

	key           string
	handshaked    atomic.Bool
	handshakeResp *httpmsg.Message
}

// NewClient constructs a WebSocket client. Call Connect to dial and
// upgrade.
func NewClient(cfg tcp.Config, hooks Hooks) *Client {
	c := &Client{hooks: hooks, handshakeResp: httpmsg.NewResponse()}
	c.decoder = &wsproto.Decoder{
		OnData:    c.onData,
		OnControl: c.onControl,
		OnError:   c.onProtocolError,
	}
	c.tcp = tcp.NewClient(cfg, tcp.Hooks{
		OnReceived:     c.onReceived,
		OnDisconnected: c.onDisconnected,
	})
	return c
}

// Connect dials addr, then sends the upgrade request for path on host.
// OnConnected fires once the server's 101 response validates.
func (c *Client) Connect(addr, host, path string) bool {
	if !c.tcp.Connect(addr) {
		return false
	}
	req, key := wsproto.BuildClientRequest(host, path)
	c.key = key
	c.tcp.Send(req)
	return true
}

// Handshaked reports whether the upgrade completed successfully.
func (c *Client) Handshaked() bool { return c.handshaked.Load() }

// Send frames payload as opcode and appends it to the send buffer.
// Client-side frames are always masked. Returns 0 before the handshake
// completes.
func (c *Client) Send(opcode byte, payload []byte) int {
	if !c.handshaked.Load() {
		return 0
	}
	frame, err := wsproto.EncodeFrame(opcode, true, payload, true)
	if err != nil {
		return 0
	}
	return c.tcp.Send(frame)
}

// SendText is a convenience wrapper around Send for OpcodeText.
func (c *Client) SendText(s string) int { return c.Send(wsproto.OpcodeText, []byte(s)) }

// Disconnect tears down the underlying connection.
func (c *Client) Disconnect() { c.tcp.Disconnect(false) }

func (c *Client) onReceived(buf []byte) {
	if c.handshaked.Load() {
		c.decoder.Feed(buf)
		return
	}
	if c.handshakeResp.ReceiveHeader(buf) {
		if err := wsproto.ValidateServerResponse(c.handshakeResp, c.key); err != nil {
			c.failHandshake(err)
			return
		}
		c.handshaked.Store(true)
		if c.hooks.OnConnected != nil {
			c.hooks.OnConnected(c.handshakeResp)
		}
		if trailing := c.handshakeResp.TrailingBytes(); len(trailing) > 0 {
			c.decoder.Feed(trailing)
		}
		return
	}
	if c.handshakeResp.Error() {
		c.failHandshake(wsproto.ErrHandshakeFailed)
	}
}

func (c *Client) failHandshake(err error) {
	if c.hooks.OnError != nil {
		c.hooks.OnError(err)
	}
	c.tcp.Disconnect(false)
}

func (c *Client) onData(opcode byte, payload []byte) {
	if c.hooks.OnReceived != nil {
		c.hooks.OnReceived(opcode, payload)
	}
}

func (c *Client) onControl(opcode byte, payload []byte) {
	switch opcode {
	case wsproto.OpcodeClose:
		status, ok := wsproto.DecodeCloseStatus(payload)
		if !ok {
			status = wsproto.CloseNormalClosure
		}
		if frame, err := wsproto.EncodeCloseFrame(status, nil, true); err == nil {
			c.tcp.Send(frame)
		}
		c.tcp.Disconnect(false)
	case wsproto.OpcodePing:
		if frame, err := wsproto.EncodeFrame(wsproto.OpcodePong, true, payload, true); err == nil {
			c.tcp.Send(frame)
		}
	}
}

func (c *Client) onProtocolError(err error) {
	if c.hooks.OnError != nil {
		c.hooks.OnError(err)
	}
	if frame, ferr := wsproto.EncodeCloseFrame(wsproto.CloseProtocolError, nil, true); ferr == nil {
		c.tcp.Send(frame)
	}
	c.tcp.Disconnect(false)
}

func (c *Client) onDisconnected() {
	if c.hooks.OnDisconnected != nil {
		c.hooks.OnDisconnected()
	}
}
