package httpmsg

import (
	"bytes"
	"testing"
)

func TestRequestRoundTrip(t *testing.T) {
	built := NewRequest()
	built.SetRequestLine("GET", "/x", "HTTP/1.1")
	built.SetHeader("Host", "h")
	built.Close()

	parsed := NewRequest()
	if !parsed.ReceiveHeader(built.Bytes()) {
		t.Fatalf("ReceiveHeader failed, err=%v", parsed.Error())
	}
	if parsed.Method() != "GET" || parsed.URL() != "/x" || parsed.Protocol() != "HTTP/1.1" {
		t.Fatalf("got method=%q url=%q protocol=%q", parsed.Method(), parsed.URL(), parsed.Protocol())
	}
	if v, ok := parsed.Header("Host"); !ok || v != "h" {
		t.Fatalf("Host header = %q,%v want h,true", v, ok)
	}
	if parsed.Phase() != Complete {
		t.Fatal("expected Complete phase for a bodyless request")
	}
}

func TestRequestWithQueryString(t *testing.T) {
	m := NewRequest()
	if !m.ReceiveHeader([]byte("GET /path?a=1&b=2 HTTP/1.1\r\nHost: h\r\n\r\n")) {
		t.Fatalf("ReceiveHeader failed, err=%v", m.Error())
	}
	if m.URL() != "/path" {
		t.Fatalf("URL = %q, want /path", m.URL())
	}
	if m.Query() != "a=1&b=2" {
		t.Fatalf("Query = %q, want a=1&b=2", m.Query())
	}
}

func TestResponseWithContentLength(t *testing.T) {
	resp := NewResponse()
	resp.SetStatusLine("HTTP/1.1", 200, "")
	resp.SetBody([]byte("hello"))

	parsed := NewResponse()
	wire := resp.Bytes()
	if !parsed.ReceiveHeader(wire) {
		t.Fatalf("ReceiveHeader failed, err=%v", parsed.Error())
	}
	if parsed.Phase() != Complete {
		t.Fatal("expected Complete once Content-Length body is all present")
	}
	if parsed.Status() != 200 {
		t.Fatalf("Status = %d, want 200", parsed.Status())
	}
	if string(parsed.Body()) != "hello" {
		t.Fatalf("Body = %q, want hello", parsed.Body())
	}
}

func TestParserOneByteAtATimeMatchesOneShot(t *testing.T) {
	wire := []byte("GET /x HTTP/1.1\r\nHost: h\r\nX-Foo: bar\r\n\r\n")

	oneShot := NewRequest()
	if !oneShot.ReceiveHeader(wire) {
		t.Fatalf("one-shot ReceiveHeader failed, err=%v", oneShot.Error())
	}

	incremental := NewRequest()
	var done bool
	for i := 0; i < len(wire) && !done; i++ {
		done = incremental.ReceiveHeader(wire[i : i+1])
	}
	if !done {
		t.Fatalf("incremental parse never completed, err=%v", incremental.Error())
	}
	if oneShot.Method() != incremental.Method() ||
		oneShot.URL() != incremental.URL() ||
		oneShot.Protocol() != incremental.Protocol() {
		t.Fatal("incremental parse start line disagrees with one-shot")
	}
	oh, _ := oneShot.Header("X-Foo")
	ih, _ := incremental.Header("X-Foo")
	if oh != ih {
		t.Fatalf("incremental header = %q, want %q", ih, oh)
	}
}

func TestHeaderSeparatorSplitAcrossCalls(t *testing.T) {
	wire := []byte("GET /x HTTP/1.1\r\nHost: h\r\n\r\n")
	split := bytes.Index(wire, []byte("\r\n\r"))
	first, second := wire[:split+3], wire[split+3:]

	m := NewRequest()
	if m.ReceiveHeader(first) {
		t.Fatal("expected false before the separator completes")
	}
	if !m.ReceiveHeader(second) {
		t.Fatalf("expected true once the separator completes, err=%v", m.Error())
	}
	if m.Method() != "GET" {
		t.Fatalf("Method = %q, want GET", m.Method())
	}
}

func TestMalformedHeaderSetsError(t *testing.T) {
	m := NewRequest()
	m.ReceiveHeader([]byte("GET /x HTTP/1.1\r\nBadHeaderNoColon\r\n\r\n"))
	if !m.Error() {
		t.Fatal("expected Error() after a header line with no colon")
	}
}

func TestDuplicateHeaderKeysPreserved(t *testing.T) {
	m := NewRequest()
	if !m.ReceiveHeader([]byte("GET /x HTTP/1.1\r\nX-A: 1\r\nX-A: 2\r\n\r\n")) {
		t.Fatalf("ReceiveHeader failed, err=%v", m.Error())
	}
	headers := m.Headers()
	count := 0
	for _, h := range headers {
		if h[0] == "X-A" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("got %d X-A headers, want 2", count)
	}
}

func TestStatusPhraseTable(t *testing.T) {
	if StatusPhrase(200) != "OK" {
		t.Fatal("200 must map to OK")
	}
	if StatusPhrase(999) != "Unknown" {
		t.Fatal("unknown codes must map to Unknown")
	}
}
