// File: httpmsg/builder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Builder mode: the application calls SetRequestLine/SetStatusLine,
// SetHeader repeatedly, then SetBody or SetBodyLength. The cache grows to
// exactly the wire bytes and Bytes() returns them.

package httpmsg

import "strconv"

// SetRequestLine begins a request message: "method url protocol\r\n".
func (m *Message) SetRequestLine(method, url, protocol string) {
	m.isRequest = true
	m.cache = append(m.cache, method...)
	m.cache = append(m.cache, ' ')
	m.cache = append(m.cache, url...)
	m.cache = append(m.cache, ' ')
	m.cache = append(m.cache, protocol...)
	m.cache = append(m.cache, crlf...)
}

// SetStatusLine begins a response message: "protocol status phrase\r\n".
// If phrase is "", the canonical phrase for status is used.
func (m *Message) SetStatusLine(protocol string, status int, phrase string) {
	m.isRequest = false
	if phrase == "" {
		phrase = StatusPhrase(status)
	}
	m.cache = append(m.cache, protocol...)
	m.cache = append(m.cache, ' ')
	m.cache = append(m.cache, strconv.Itoa(status)...)
	m.cache = append(m.cache, ' ')
	m.cache = append(m.cache, phrase...)
	m.cache = append(m.cache, crlf...)
}

// SetHeader appends one header line. Call after the start line and before
// SetBody/SetBodyLength.
func (m *Message) SetHeader(key, val string) {
	m.cache = append(m.cache, key...)
	m.cache = append(m.cache, ':', ' ')
	m.cache = append(m.cache, val...)
	m.cache = append(m.cache, crlf...)
}

// SetBody appends Content-Length: len(body) and body, then closes the
// message. Call last.
func (m *Message) SetBody(body []byte) {
	m.SetHeader("Content-Length", strconv.Itoa(len(body)))
	m.cache = append(m.cache, crlf...)
	m.bodyIndex = len(m.cache)
	m.cache = append(m.cache, body...)
	m.bodySize = len(body)
	m.declaredLength = len(body)
	m.phase = Complete
}

// SetBodyLength closes the header section declaring Content-Length: n
// without appending any body bytes yet (the caller streams the body
// separately).
func (m *Message) SetBodyLength(n int) {
	m.SetHeader("Content-Length", strconv.Itoa(n))
	m.cache = append(m.cache, crlf...)
	m.bodyIndex = len(m.cache)
	m.declaredLength = n
	m.phase = Complete
}

// Close closes the header section with no declared body length (the
// request/response has no body).
func (m *Message) Close() {
	m.cache = append(m.cache, crlf...)
	m.bodyIndex = len(m.cache)
	m.phase = Complete
}

// Bytes returns the exact wire bytes built so far.
func (m *Message) Bytes() []byte { return m.cache }
