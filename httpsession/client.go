// File: httpsession/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpsession

import (
	"github.com/momentics/hioload-ws/httpmsg"
	"github.com/momentics/hioload-ws/transport/tcp"
)

// Client layers HTTP request/response semantics on a tcp.Client: it sends
// requests built with httpmsg and raises Hooks as the corresponding
// response parses.
type Client struct {
	tcp    *tcp.Client
	driver *driver
}

// NewClient constructs an HTTP client. cfg/tcpHooks configure the
// underlying TCP connection; hooks configure HTTP-level events. Any
// OnReceived set on tcpHooks is overwritten to drive the HTTP parser.
func NewClient(cfg tcp.Config, tcpHooks tcp.Hooks, hooks Hooks) *Client {
	c := &Client{driver: newDriver(false, hooks)}
	tcpHooks.OnReceived = func(buf []byte) { c.driver.Feed(buf) }
	prevDisconnected := tcpHooks.OnDisconnected
	tcpHooks.OnDisconnected = func() {
		c.driver.Disconnected()
		if prevDisconnected != nil {
			prevDisconnected()
		}
	}
	c.tcp = tcp.NewClient(cfg, tcpHooks)
	return c
}

// Connect dials addr, as tcp.Client.Connect.
func (c *Client) Connect(addr string) bool { return c.tcp.Connect(addr) }

// Disconnect tears down the connection, as tcp.Client.Disconnect.
func (c *Client) Disconnect(dispatch bool) { c.tcp.Disconnect(dispatch) }

// SendRequest builds a request with the given method/url/headers/body and
// appends it to the send buffer.
func (c *Client) SendRequest(method, url string, headers [][2]string, body []byte) int {
	req := httpmsg.NewRequest()
	req.SetRequestLine(method, url, "HTTP/1.1")
	for _, h := range headers {
		req.SetHeader(h[0], h[1])
	}
	if body != nil {
		req.SetBody(body)
	} else {
		req.Close()
	}
	return c.tcp.Send(req.Bytes())
}

// Underlying exposes the wrapped tcp.Client for advanced use (e.g. WebSocket upgrade).
func (c *Client) Underlying() *tcp.Client { return c.tcp }
