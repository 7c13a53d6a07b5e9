package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrClosed     = errors.New("engine connection closed")
	ErrShortFrame = errors.New("reply frame shorter than request id")
	ErrBadSize    = errors.New("viewport size out of range")
)

// MaxViewport is the largest width or height a terminal window size holds.
const MaxViewport = math.MaxUint16

func checkViewport(width, height int) error {
	if width < 1 || height < 1 || width > MaxViewport || height > MaxViewport {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, width, height)
	}
	return nil
}

// Inbound is one message from the engine: either a text line (telemetry)
// or a binary reply frame.
type Inbound struct {
	Text   string
	Binary []byte
}

// Transport is a message channel to the engine.
type Transport interface {
	// Send delivers one protocol line.
	Send(line string) error
	// Inbound yields engine messages until the transport is closed.
	Inbound() <-chan Inbound
	// Done is closed when the transport ends.
	Done() <-chan struct{}
	Close() error
}

// Resizer is implemented by transports that can tell the engine its
// viewport size.
type Resizer interface {
	Resize(width, height int) error
}

// EncodeReply builds a reply frame: a little-endian uint32 request id
// followed by the payload.
func EncodeReply(id uint32, payload []byte) []byte {
	frame := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(frame, id)
	copy(frame[4:], payload)
	return frame
}

// DecodeReply splits a reply frame.
func DecodeReply(frame []byte) (uint32, []byte, error) {
	if len(frame) < 4 {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(frame))
	}
	return binary.LittleEndian.Uint32(frame), frame[4:], nil
}
