// File: httpmsg/parser.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Incremental stream parser: callers may hand ReceiveHeader/ReceiveBody
// any slicing of the wire bytes; state persists across calls so a single
// byte at a time parses identically to one-shot parsing. Header and
// start-line fields are recorded as (offset, length) into the cache —
// never copied — by scanning with explicit byte offsets throughout.

package httpmsg

import "bytes"

// ReceiveHeader appends buf to the cache and attempts to complete the
// start-line+headers phase. It returns true once the CRLF CRLF separator
// is found and the start line and headers parse cleanly; it returns false
// both when more bytes are needed and when a parse error occurred (check
// Error() to distinguish the two).
func (m *Message) ReceiveHeader(buf []byte) bool {
	if m.err || m.phase != PendingHeader {
		return false
	}
	m.cache = append(m.cache, buf...)

	idx := bytes.Index(m.cache[m.cacheSize:], crlfcrlf)
	if idx < 0 {
		// Retreat three bytes so a separator straddling this call's seam
		// is still found once the remaining byte(s) arrive.
		m.cacheSize = len(m.cache) - 3
		if m.cacheSize < 0 {
			m.cacheSize = 0
		}
		return false
	}
	end := m.cacheSize + idx // offset of the CRLF CRLF within m.cache

	if !m.parseHeadSection(end) {
		m.err = true
		return false
	}

	m.bodyIndex = end + 4
	m.bodySize = len(m.cache) - m.bodyIndex
	m.err = false

	switch {
	case m.declaredLength == 0:
		m.bodySize = 0 // not declared: trailing bytes belong to the next message
		m.phase = Complete
	case m.bodySize >= m.declaredLength:
		m.bodySize = m.declaredLength
		m.phase = Complete
	default:
		m.phase = PendingBody
	}
	return true
}

var crlfcrlf = []byte("\r\n\r\n")
var crlf = []byte("\r\n")

// ReceiveBody appends buf to the body and reports whether the body is now
// complete (bodySize has reached the declared Content-Length).
func (m *Message) ReceiveBody(buf []byte) bool {
	if m.err || m.phase == PendingHeader {
		return false
	}
	m.cache = append(m.cache, buf...)
	m.bodySize += len(buf)
	if m.declaredLength > 0 && m.bodySize >= m.declaredLength {
		m.bodySize = m.declaredLength
		m.phase = Complete
		return true
	}
	return false
}

// FinishOnDisconnect accepts whatever body bytes have accumulated as the
// final body of a message still in PendingBody, i.e. one whose declared
// Content-Length had not fully arrived.
func (m *Message) FinishOnDisconnect() {
	if m.phase == PendingBody {
		m.phase = Complete
	}
}

// parseHeadSection parses cache[0:end] (the start line plus every header
// line) using explicit offsets so every recorded slice points directly
// into m.cache.
func (m *Message) parseHeadSection(end int) bool {
	pos := 0
	lineEnd := indexFrom(m.cache, pos, end, crlf)
	if lineEnd < 0 {
		lineEnd = end
	}
	if !m.parseStartLine(pos, lineEnd) {
		return false
	}
	pos = lineEnd + 2

	for pos < end {
		lineEnd = indexFrom(m.cache, pos, end, crlf)
		if lineEnd < 0 {
			lineEnd = end
		}
		if lineEnd > pos {
			if !m.parseHeaderLine(pos, lineEnd) {
				return false
			}
		}
		pos = lineEnd + 2
	}
	return true
}

func indexFrom(cache []byte, from, to int, sep []byte) int {
	rel := bytes.Index(cache[from:to], sep)
	if rel < 0 {
		return -1
	}
	return from + rel
}

func (m *Message) parseStartLine(start, end int) bool {
	line := m.cache[start:end]
	sp1 := bytes.IndexByte(line, ' ')
	if sp1 <= 0 {
		return false
	}
	sp2 := bytes.IndexByte(line[sp1+1:], ' ')
	if sp2 < 0 {
		return false
	}
	sp2 += sp1 + 1

	first := slice{offset: start, length: sp1}
	second := slice{offset: start + sp1 + 1, length: sp2 - sp1 - 1}
	third := slice{offset: start + sp2 + 1, length: end - start - sp2 - 1}

	if m.isRequest {
		if first.length == 0 || !isAlpha(m.cache[first.offset : first.offset+first.length]) {
			return false
		}
		m.method = first
		url := m.cache[second.offset : second.offset+second.length]
		if q := bytes.IndexByte(url, '?'); q >= 0 {
			m.url = slice{offset: second.offset, length: q}
			m.query = slice{offset: second.offset + q + 1, length: second.length - q - 1}
		} else {
			m.url = second
		}
		m.protocol = third
		return true
	}

	m.protocol = first
	status := m.cache[second.offset : second.offset+second.length]
	if len(status) != 3 || !isDigits(status) {
		return false
	}
	m.status = second
	m.phrase = third
	return true
}

func (m *Message) parseHeaderLine(start, end int) bool {
	line := m.cache[start:end]
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return false
	}
	valStart := colon + 1
	for valStart < len(line) && (line[valStart] == ' ' || line[valStart] == '\t') {
		valStart++
	}
	if valStart >= len(line) {
		return false
	}
	key := slice{offset: start, length: colon}
	val := slice{offset: start + valStart, length: len(line) - valStart}

	m.headers = append(m.headers, header{key: key, val: val})
	if equalFold(string(line[:colon]), "Content-Length") {
		n, ok := parseDecimal(line[valStart:])
		if !ok {
			return false
		}
		m.declaredLength = n
	}
	return true
}

func isAlpha(b []byte) bool {
	for _, c := range b {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

func isDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func parseDecimal(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
