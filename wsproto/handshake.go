// File: wsproto/handshake.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RFC 6455 upgrade handshake, built on httpmsg instead of net/http so the
// WebSocket layer shares one HTTP parser/builder with the rest of the
// toolkit.

package wsproto

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/momentics/hioload-ws/httpmsg"
)

const (
	WebSocketGUID            = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"
	RequiredWebSocketVersion = "13"
)

var (
	ErrInvalidUpgradeHeaders = errors.New("wsproto: invalid WebSocket upgrade headers")
	ErrMissingWebSocketKey   = errors.New("wsproto: missing Sec-WebSocket-Key header")
	ErrBadWebSocketVersion   = errors.New("wsproto: unsupported WebSocket version; only 13 is supported")
	ErrHandshakeFailed       = errors.New("wsproto: handshake failed")
)

// AcceptKey computes Sec-WebSocket-Accept for a client's Sec-WebSocket-Key.
func AcceptKey(key string) string {
	h := sha1.New()
	h.Write([]byte(key + WebSocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// NewClientKey returns a fresh base64(16 random bytes) Sec-WebSocket-Key.
func NewClientKey() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.StdEncoding.EncodeToString(b[:])
}

// BuildClientRequest constructs the client's upgrade request for path on
// host, with a freshly generated Sec-WebSocket-Key. It returns the wire
// bytes and the key (so the caller can verify the server's accept value).
func BuildClientRequest(host, path string) (req []byte, key string) {
	key = NewClientKey()
	m := httpmsg.NewRequest()
	m.SetRequestLine("GET", path, "HTTP/1.1")
	m.SetHeader("Host", host)
	m.SetHeader("Upgrade", "websocket")
	m.SetHeader("Connection", "Upgrade")
	m.SetHeader("Sec-WebSocket-Key", key)
	m.SetHeader("Sec-WebSocket-Version", RequiredWebSocketVersion)
	m.Close()
	return m.Bytes(), key
}

// ValidateServerResponse checks a fully parsed upgrade response against
// the key sent in the original request.
func ValidateServerResponse(resp *httpmsg.Message, key string) error {
	if resp.Status() != 101 {
		return ErrHandshakeFailed
	}
	if !headerHasToken(resp, "Upgrade", "websocket") || !headerHasToken(resp, "Connection", "upgrade") {
		return ErrInvalidUpgradeHeaders
	}
	accept, ok := resp.Header("Sec-WebSocket-Accept")
	if !ok || accept != AcceptKey(key) {
		return ErrHandshakeFailed
	}
	return nil
}

// ValidateUpgradeRequest checks a fully parsed request against RFC 6455's
// server-side preconditions and returns the client's Sec-WebSocket-Key.
func ValidateUpgradeRequest(req *httpmsg.Message) (string, error) {
	if req.Method() != "GET" {
		return "", ErrInvalidUpgradeHeaders
	}
	if !headerHasToken(req, "Upgrade", "websocket") {
		return "", ErrInvalidUpgradeHeaders
	}
	if v, _ := req.Header("Sec-WebSocket-Version"); v != RequiredWebSocketVersion {
		return "", ErrBadWebSocketVersion
	}
	key, ok := req.Header("Sec-WebSocket-Key")
	if !ok || key == "" {
		return "", ErrMissingWebSocketKey
	}
	return key, nil
}

// BuildServerResponse builds the HTTP 101 Switching Protocols response
// accepting the upgrade identified by the client's key.
func BuildServerResponse(key string) []byte {
	m := httpmsg.NewResponse()
	m.SetStatusLine("HTTP/1.1", 101, "Switching Protocols")
	m.SetHeader("Upgrade", "websocket")
	m.SetHeader("Connection", "Upgrade")
	m.SetHeader("Sec-WebSocket-Accept", AcceptKey(key))
	m.Close()
	return m.Bytes()
}

func headerHasToken(m *httpmsg.Message, key, token string) bool {
	v, ok := m.Header(key)
	if !ok {
		return false
	}
	for _, part := range strings.Split(v, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}
