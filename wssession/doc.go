// File: wssession/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package wssession layers the WebSocket handshake and frame codec
// (wsproto) on top of a raw transport/tcp Client or Session: it drives the
// upgrade exchange through an httpmsg.Message, then hands the connection's
// received bytes to a wsproto.Decoder for the remainder of its lifetime.
package wssession
