package engine

import (
	"bytes"
	"sync"
)

const maxLog = 1 << 20 // 1MB

// logBuffer keeps the most recent engine output that is not protocol
// traffic. When trimmed it drops whole lines where it can.
type logBuffer struct {
	mu   sync.Mutex
	data []byte
	max  int
}

func newLogBuffer() *logBuffer {
	return &logBuffer{max: maxLog}
}

func (b *logBuffer) Write(p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	if len(b.data) > b.max {
		excess := len(b.data) - b.max
		b.data = b.data[excess:]
		if i := bytes.IndexByte(b.data, '\n'); i >= 0 && i < len(b.data)-1 {
			b.data = b.data[i+1:]
		}
	}
}

func (b *logBuffer) Snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) == 0 {
		return nil
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp
}
