package engine

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

// WSConn talks to an engine that serves a websocket. Commands go out as text
// frames; text frames coming back are telemetry and binary frames are
// replies.
type WSConn struct {
	conn *websocket.Conn

	// gorilla/websocket forbids concurrent writes.
	writeMu   sync.Mutex
	in        chan Inbound
	done      chan struct{}
	closeOnce sync.Once
}

func DialWS(ctx context.Context, url string) (*WSConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return NewWSConn(conn), nil
}

// NewWSConn wraps an established connection.
func NewWSConn(conn *websocket.Conn) *WSConn {
	c := &WSConn{
		conn: conn,
		in:   make(chan Inbound, 256),
		done: make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *WSConn) readLoop() {
	defer close(c.done)
	defer close(c.in)
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		switch mt {
		case websocket.TextMessage:
			c.in <- Inbound{Text: string(data)}
		case websocket.BinaryMessage:
			c.in <- Inbound{Binary: data}
		}
	}
}

func (c *WSConn) Send(line string) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (c *WSConn) Inbound() <-chan Inbound { return c.in }

func (c *WSConn) Done() <-chan struct{} { return c.done }

func (c *WSConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
