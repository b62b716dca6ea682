// File: wsproto/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package wsproto implements the RFC 6455 WebSocket frame codec — masked
// and unmasked frame encode/decode, control-frame handling, fragmented
// data-frame reassembly — and the client/server upgrade handshake layered
// on httpmsg.
package wsproto
