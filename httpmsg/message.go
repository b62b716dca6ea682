// File: httpmsg/message.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpmsg

// Phase tracks where a Message's parse has gotten to.
type Phase int

const (
	PendingHeader Phase = iota
	PendingBody
	Complete
)

type slice struct {
	offset, length int
}

func (s slice) get(cache []byte) string {
	if s.length == 0 {
		return ""
	}
	return string(cache[s.offset : s.offset+s.length])
}

// header is one (key, value) pair as recorded positions into the cache.
// Duplicate keys are permitted; Headers returns them in arrival order.
type header struct {
	key, val slice
}

// Message is a parsed or under-construction HTTP/1.1 request or response.
// A parser and a builder both populate the same fields; Bytes/accessors
// read them identically either way.
type Message struct {
	cache     []byte
	cacheSize int // prefix of cache already scanned by the header phase

	isRequest bool

	method, url, query, protocol slice // request start line
	status, phrase                slice // response start line

	headers []header

	bodyIndex          int // offset into cache where the body begins
	bodySize           int // bytes of body observed so far
	declaredLength     int // Content-Length value, or 0

	phase Phase
	err   bool
}

// NewRequest returns an empty Message for building or parsing a request.
func NewRequest() *Message { return &Message{isRequest: true} }

// NewResponse returns an empty Message for building or parsing a response.
func NewResponse() *Message { return &Message{isRequest: false} }

// IsRequest reports whether this Message is a request (as opposed to a
// response).
func (m *Message) IsRequest() bool { return m.isRequest }

// Error reports whether parsing hit a malformed start line or header.
func (m *Message) Error() bool { return m.err }

// Phase reports how far the parse has progressed.
func (m *Message) Phase() Phase { return m.phase }

// Method returns the request method (empty for a response or before the
// start line parses).
func (m *Message) Method() string { return m.method.get(m.cache) }

// URL returns the request path, with any query string stripped.
func (m *Message) URL() string { return m.url.get(m.cache) }

// Query returns the request's raw query string (without the leading '?'),
// or "" if none was present.
func (m *Message) Query() string { return m.query.get(m.cache) }

// Protocol returns the HTTP version token, e.g. "HTTP/1.1".
func (m *Message) Protocol() string { return m.protocol.get(m.cache) }

// Status returns the response's numeric status code, or 0 before it
// parses.
func (m *Message) Status() int {
	s := m.status.get(m.cache)
	if s == "" {
		return 0
	}
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// Phrase returns the response's reason phrase.
func (m *Message) Phrase() string { return m.phrase.get(m.cache) }

// Header returns the first value for key (case-insensitive), if present.
func (m *Message) Header(key string) (string, bool) {
	for _, h := range m.headers {
		if equalFold(h.key.get(m.cache), key) {
			return h.val.get(m.cache), true
		}
	}
	return "", false
}

// Headers returns every (key, value) pair in arrival order, duplicates
// included.
func (m *Message) Headers() [][2]string {
	out := make([][2]string, len(m.headers))
	for i, h := range m.headers {
		out[i] = [2]string{h.key.get(m.cache), h.val.get(m.cache)}
	}
	return out
}

// Body returns the body bytes observed so far, truncated to
// declared_length once it is known.
func (m *Message) Body() []byte {
	if m.bodySize == 0 {
		return nil
	}
	return m.cache[m.bodyIndex : m.bodyIndex+m.bodySize]
}

// ContentLength returns the declared Content-Length, or 0 if absent.
func (m *Message) ContentLength() int { return m.declaredLength }

// TrailingBytes returns every byte that followed the header separator,
// regardless of how many the declared Content-Length accounted for. A
// caller handing this message's connection off to a different protocol
// (e.g. WebSocket frames arriving in the same segment as the upgrade
// request) uses this instead of Body to recover bytes a zero or absent
// Content-Length left uncounted.
func (m *Message) TrailingBytes() []byte {
	if m.phase == PendingHeader {
		return nil
	}
	return m.cache[m.bodyIndex:]
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
