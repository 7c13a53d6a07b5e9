package engine_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"smoothlife-panel/engine"
	"smoothlife-panel/params"
)

func newLoopbackClient(t *testing.T) (*engine.Client, *engine.Loopback) {
	t.Helper()
	lb := engine.NewLoopback()
	c := engine.NewClient(lb)
	t.Cleanup(func() { c.Close() })
	return c, lb
}

func TestParseFPS(t *testing.T) {
	if v, ok := engine.ParseFPS("FPS: 59.941"); !ok || v != 59.941 {
		t.Fatalf("unexpected %v %v", v, ok)
	}
	for _, s := range []string{"fps: 1", "FPS: fast", "hello"} {
		if _, ok := engine.ParseFPS(s); ok {
			t.Fatalf("ParseFPS(%q) should fail", s)
		}
	}
}

func TestReplyFrameRoundTrip(t *testing.T) {
	frame := engine.EncodeReply(0x01020304, []byte("abc"))
	if frame[0] != 0x04 || frame[3] != 0x01 {
		t.Fatalf("request id is not little-endian: % x", frame[:4])
	}
	id, payload, err := engine.DecodeReply(frame)
	if err != nil || id != 0x01020304 || string(payload) != "abc" {
		t.Fatalf("unexpected decode %d %q %v", id, payload, err)
	}
	if _, _, err := engine.DecodeReply([]byte{1, 2}); !errors.Is(err, engine.ErrShortFrame) {
		t.Fatalf("expected ErrShortFrame, got %v", err)
	}
}

func TestSendRecordsCommands(t *testing.T) {
	c, lb := newLoopbackClient(t)
	if err := c.Send(params.Splat()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := lb.Commands(); len(got) != 1 || got[0] != "Splat" {
		t.Fatalf("unexpected commands %v", got)
	}
}

func TestResizeRejectsOversize(t *testing.T) {
	c, _ := newLoopbackClient(t)
	if err := c.Resize(engine.MaxViewport+1, 600); !errors.Is(err, engine.ErrBadSize) {
		t.Fatalf("expected ErrBadSize, got %v", err)
	}
	if err := c.Resize(1920, 1080); err != nil {
		t.Fatalf("Resize: %v", err)
	}
}

func TestScreenshot(t *testing.T) {
	c, _ := newLoopbackClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := c.Screenshot(ctx, params.FormatPNG, "reduce 64")
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reply is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 {
		t.Fatalf("expected reduced width 64, got %d", b.Dx())
	}
	if n := c.PendingRequests(); n != 0 {
		t.Fatalf("expected no pending requests, got %d", n)
	}
}

func TestScreenshotBadFormat(t *testing.T) {
	c, _ := newLoopbackClient(t)
	if _, err := c.Screenshot(context.Background(), "BMP"); !errors.Is(err, params.ErrBadArgs) {
		t.Fatalf("expected ErrBadArgs, got %v", err)
	}
	if n := c.PendingRequests(); n != 0 {
		t.Fatalf("pending entry leaked: %d", n)
	}
}

func TestGetBuffer(t *testing.T) {
	c, _ := newLoopbackClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := c.GetBuffer(ctx)
	if err != nil {
		t.Fatalf("GetBuffer: %v", err)
	}
	if len(data) != 4*64*64 {
		t.Fatalf("unexpected buffer size %d", len(data))
	}
}

// silent accepts commands and never replies.
type silent struct {
	in   chan engine.Inbound
	done chan struct{}
	once sync.Once
}

func newSilent() *silent {
	return &silent{in: make(chan engine.Inbound), done: make(chan struct{})}
}

func (s *silent) Send(string) error                { return nil }
func (s *silent) Inbound() <-chan engine.Inbound { return s.in }
func (s *silent) Done() <-chan struct{}          { return s.done }
func (s *silent) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func TestRequestTimeoutCleansUp(t *testing.T) {
	c := engine.NewClient(newSilent())
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.GetBuffer(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if n := c.PendingRequests(); n != 0 {
		t.Fatalf("expected pending map to be empty, got %d", n)
	}
}

func TestRequestFailsWhenTransportCloses(t *testing.T) {
	s := newSilent()
	c := engine.NewClient(s)

	errc := make(chan error, 1)
	go func() {
		_, err := c.GetBuffer(context.Background())
		errc <- err
	}()
	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, engine.ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("request did not fail after close")
	}

	<-c.Done()
	if _, err := c.GetBuffer(context.Background()); !errors.Is(err, engine.ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}

func TestTelemetryListener(t *testing.T) {
	c, lb := newLoopbackClient(t)
	ch := make(chan engine.Telemetry, 4)
	kick := c.SetListener(ch)
	defer c.ClearListener(ch)

	lb.EmitFPS(42.5)
	select {
	case tm := <-ch:
		if tm.FPS != 42.5 {
			t.Fatalf("expected 42.5, got %v", tm.FPS)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no telemetry received")
	}
	if c.FPS() != 42.5 {
		t.Fatalf("expected FPS() 42.5, got %v", c.FPS())
	}
	select {
	case <-kick:
		t.Fatal("listener kicked unexpectedly")
	default:
	}
}

func TestSetListenerKicksPrior(t *testing.T) {
	c, _ := newLoopbackClient(t)
	ch1 := make(chan engine.Telemetry, 1)
	kick1 := c.SetListener(ch1)
	ch2 := make(chan engine.Telemetry, 1)
	_ = c.SetListener(ch2)

	select {
	case <-kick1:
	default:
		t.Fatal("first listener's kick channel was not closed on displacement")
	}

	// Clearing the displaced listener must not unregister the new one.
	c.ClearListener(ch1)
	if !c.Connected() {
		t.Fatal("ClearListener with displaced channel cleared the current listener")
	}
	c.ClearListener(ch2)
	if c.Connected() {
		t.Fatal("expected no listener after clearing the current one")
	}
}

func TestWSConn(t *testing.T) {
	upgrader := websocket.Upgrader{}
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		got <- string(data)
		conn.WriteMessage(websocket.TextMessage, []byte("FPS: 30.000"))
		conn.WriteMessage(websocket.BinaryMessage, engine.EncodeReply(1, []byte("buf")))
		conn.ReadMessage() // wait for close
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ws, err := engine.DialWS(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("DialWS: %v", err)
	}
	c := engine.NewClient(ws)
	defer c.Close()

	data, err := c.GetBuffer(ctx)
	if err != nil {
		t.Fatalf("GetBuffer: %v", err)
	}
	if string(data) != "buf" {
		t.Fatalf("unexpected payload %q", data)
	}
	if line := <-got; line != "GetBuffer:1" {
		t.Fatalf("unexpected command %q", line)
	}
	if c.FPS() != 30 {
		t.Fatalf("expected FPS 30, got %v", c.FPS())
	}
}
