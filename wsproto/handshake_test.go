package wsproto

import (
	"testing"

	"github.com/momentics/hioload-ws/httpmsg"
)

func TestAcceptKeyMatchesRFC6455Vector(t *testing.T) {
	key := "dGhlIHNhbXBsZSBub25jZQ=="
	want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if got := AcceptKey(key); got != want {
		t.Fatalf("AcceptKey = %q, want %q", got, want)
	}
}

func TestServerUpgradeRoundTrip(t *testing.T) {
	reqWire, key := BuildClientRequest("example.com", "/chat")

	req := httpmsg.NewRequest()
	if !req.ReceiveHeader(reqWire) {
		t.Fatalf("ReceiveHeader failed, err=%v", req.Error())
	}
	gotKey, err := ValidateUpgradeRequest(req)
	if err != nil {
		t.Fatalf("ValidateUpgradeRequest: %v", err)
	}
	if gotKey != key {
		t.Fatalf("gotKey = %q, want %q", gotKey, key)
	}

	respWire := BuildServerResponse(gotKey)
	resp := httpmsg.NewResponse()
	if !resp.ReceiveHeader(respWire) {
		t.Fatalf("response ReceiveHeader failed, err=%v", resp.Error())
	}
	if err := ValidateServerResponse(resp, key); err != nil {
		t.Fatalf("ValidateServerResponse: %v", err)
	}
}

func TestValidateUpgradeRequestRejectsWrongVersion(t *testing.T) {
	req := httpmsg.NewRequest()
	req.ReceiveHeader([]byte("GET /chat HTTP/1.1\r\nUpgrade: websocket\r\nSec-WebSocket-Version: 8\r\nSec-WebSocket-Key: abc\r\n\r\n"))
	if _, err := ValidateUpgradeRequest(req); err != ErrBadWebSocketVersion {
		t.Fatalf("err = %v, want ErrBadWebSocketVersion", err)
	}
}

func TestValidateUpgradeRequestRejectsMissingKey(t *testing.T) {
	req := httpmsg.NewRequest()
	req.ReceiveHeader([]byte("GET /chat HTTP/1.1\r\nUpgrade: websocket\r\nSec-WebSocket-Version: 13\r\n\r\n"))
	if _, err := ValidateUpgradeRequest(req); err != ErrMissingWebSocketKey {
		t.Fatalf("err = %v, want ErrMissingWebSocketKey", err)
	}
}
