package engine

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"smoothlife-panel/params"
)

const fpsPrefix = "FPS: "

// Telemetry is a frame-rate report from the engine.
type Telemetry struct {
	FPS float64 `json:"fps"`
}

// ParseFPS parses an "FPS: <float>" line.
func ParseFPS(line string) (float64, bool) {
	if !strings.HasPrefix(line, fpsPrefix) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, fpsPrefix)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Client sends commands over a Transport and routes what comes back:
// telemetry to the current listener, reply frames to the request waiting
// for their id.
type Client struct {
	t Transport

	mu      sync.Mutex
	nextID  uint32
	pending map[uint32]chan []byte
	fps     float64
	closed  bool

	listenMu sync.Mutex
	listener chan Telemetry
	kick     chan struct{}

	done chan struct{}
}

func NewClient(t Transport) *Client {
	c := &Client{
		t:       t,
		pending: make(map[uint32]chan []byte),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	defer close(c.done)
	defer c.failPending()
	in := c.t.Inbound()
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				return
			}
			c.handle(msg)
		case <-c.t.Done():
			return
		}
	}
}

func (c *Client) handle(msg Inbound) {
	if msg.Binary != nil {
		id, payload, err := DecodeReply(msg.Binary)
		if err != nil {
			log.Printf("engine: %v", err)
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[id]
		delete(c.pending, id)
		c.mu.Unlock()
		if !ok {
			log.Printf("engine: dropping reply for unknown request %d", id)
			return
		}
		ch <- payload
		return
	}

	fps, ok := ParseFPS(msg.Text)
	if !ok {
		log.Printf("engine: %s", msg.Text)
		return
	}
	c.mu.Lock()
	c.fps = fps
	c.mu.Unlock()

	c.listenMu.Lock()
	if c.listener != nil {
		select {
		case c.listener <- Telemetry{FPS: fps}:
		default:
		}
	}
	c.listenMu.Unlock()
}

// failPending closes every waiting request once the transport is gone.
func (c *Client) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Send writes one command.
func (c *Client) Send(cmd params.Command) error {
	return c.t.Send(cmd.String())
}

// FPS returns the last reported frame rate.
func (c *Client) FPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

// Request allocates a request id, sends the command built for it and waits
// for the matching reply. The pending entry is removed on every path.
func (c *Client) Request(ctx context.Context, build func(id uint32) (params.Command, error)) ([]byte, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.nextID++
	id := c.nextID
	ch := make(chan []byte, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	cleanup := func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}

	cmd, err := build(id)
	if err != nil {
		cleanup()
		return nil, err
	}
	if err := c.Send(cmd); err != nil {
		cleanup()
		return nil, err
	}

	select {
	case payload, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		return payload, nil
	case <-ctx.Done():
		cleanup()
		return nil, fmt.Errorf("request %d: %w", id, ctx.Err())
	}
}

// Screenshot requests an encoded image of the grid.
func (c *Client) Screenshot(ctx context.Context, format string, ops ...string) ([]byte, error) {
	return c.Request(ctx, func(id uint32) (params.Command, error) {
		return params.Screenshot(id, format, ops...)
	})
}

// GetBuffer requests the raw simulation grid.
func (c *Client) GetBuffer(ctx context.Context) ([]byte, error) {
	return c.Request(ctx, func(id uint32) (params.Command, error) {
		return params.GetBuffer(id), nil
	})
}

// PendingRequests reports how many requests are awaiting a reply.
func (c *Client) PendingRequests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// SetListener registers ch to receive telemetry. A previous listener is
// displaced: its kick channel is closed. The returned channel is closed if
// this listener is displaced in turn.
func (c *Client) SetListener(ch chan Telemetry) <-chan struct{} {
	c.listenMu.Lock()
	defer c.listenMu.Unlock()
	if c.kick != nil {
		close(c.kick)
	}
	kick := make(chan struct{})
	c.kick = kick
	c.listener = ch
	return kick
}

// ClearListener unregisters ch if it is still the current listener and
// always closes it.
func (c *Client) ClearListener(ch chan Telemetry) {
	c.listenMu.Lock()
	if c.listener == ch {
		c.listener = nil
		c.kick = nil
	}
	c.listenMu.Unlock()
	close(ch)
}

// Connected reports whether a telemetry listener is registered.
func (c *Client) Connected() bool {
	c.listenMu.Lock()
	defer c.listenMu.Unlock()
	return c.listener != nil
}

// Resize forwards the viewport size when the transport supports it.
func (c *Client) Resize(width, height int) error {
	if err := checkViewport(width, height); err != nil {
		return err
	}
	if r, ok := c.t.(Resizer); ok {
		return r.Resize(width, height)
	}
	return nil
}

// Log returns recent engine output when the transport keeps one.
func (c *Client) Log() []byte {
	if l, ok := c.t.(interface{ Log() []byte }); ok {
		return l.Log()
	}
	return nil
}

// Done is closed when the transport has ended.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Close() error {
	return c.t.Close()
}
