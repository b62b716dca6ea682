package httpsession

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-ws/httpmsg"
	"github.com/momentics/hioload-ws/transport/tcp"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestGetWithContentLengthRoundTrip(t *testing.T) {
	srv := NewServer(tcp.Config{}, nil, ServerHooks{
		OnRequestReceived: func(s *Session, msg *httpmsg.Message) {
			s.SendResponse(200, nil, []byte("hello"))
		},
	})
	if err := srv.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Shutdown()

	var mu sync.Mutex
	var status int
	var body []byte

	cli := NewClient(tcp.Config{}, tcp.Hooks{}, Hooks{
		OnMessageReceived: func(msg *httpmsg.Message) {
			mu.Lock()
			status = msg.Status()
			body = append([]byte(nil), msg.Body()...)
			mu.Unlock()
		},
	})
	if !cli.Connect(srv.Underlying().Addr().String()) {
		t.Fatal("Connect failed")
	}
	defer cli.Disconnect(false)

	cli.SendRequest("GET", "/x", [][2]string{{"Host", "h"}}, nil)

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return status == 200 && string(body) == "hello"
	})
}

func TestGetServedFromCache(t *testing.T) {
	cache := NewResponseCache()
	resp := httpmsg.NewResponse()
	resp.SetStatusLine("HTTP/1.1", 201, "")
	resp.SetBody([]byte("123"))
	cache.Put("/storage/k", resp.Bytes())

	var reqReceived bool
	srv := NewServer(tcp.Config{}, nil, ServerHooks{
		OnRequestReceived: func(s *Session, msg *httpmsg.Message) { reqReceived = true },
	})
	srv.Cache = cache
	if err := srv.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Shutdown()

	var mu sync.Mutex
	var status int
	var body []byte
	cli := NewClient(tcp.Config{}, tcp.Hooks{}, Hooks{
		OnMessageReceived: func(msg *httpmsg.Message) {
			mu.Lock()
			status = msg.Status()
			body = append([]byte(nil), msg.Body()...)
			mu.Unlock()
		},
	})
	if !cli.Connect(srv.Underlying().Addr().String()) {
		t.Fatal("Connect failed")
	}
	defer cli.Disconnect(false)

	cli.SendRequest("GET", "/storage/k?ignored=1", [][2]string{{"Host", "h"}}, nil)

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return status == 201 && string(body) == "123"
	})
	if reqReceived {
		t.Fatal("expected cache hit to bypass OnRequestReceived")
	}
}

func TestPutThenGetUncached(t *testing.T) {
	var stored []byte
	srv := NewServer(tcp.Config{}, nil, ServerHooks{
		OnRequestReceived: func(s *Session, msg *httpmsg.Message) {
			if msg.Method() == "PUT" {
				stored = append([]byte(nil), msg.Body()...)
				s.SendResponse(201, nil, nil)
				return
			}
			s.SendResponse(200, nil, stored)
		},
	})
	if err := srv.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Shutdown()

	var mu sync.Mutex
	var statuses []int
	cli := NewClient(tcp.Config{}, tcp.Hooks{}, Hooks{
		OnMessageReceived: func(msg *httpmsg.Message) {
			mu.Lock()
			statuses = append(statuses, msg.Status())
			mu.Unlock()
		},
	})
	if !cli.Connect(srv.Underlying().Addr().String()) {
		t.Fatal("Connect failed")
	}
	defer cli.Disconnect(false)

	cli.SendRequest("PUT", "/storage/k", [][2]string{{"Host", "h"}}, []byte("123"))
	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(statuses) == 1
	})
	cli.SendRequest("GET", "/storage/k", [][2]string{{"Host", "h"}}, nil)
	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(statuses) == 2
	})
}
