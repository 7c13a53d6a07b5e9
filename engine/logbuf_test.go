package engine

import (
	"sync"
	"testing"
)

func TestLogBufferWrite(t *testing.T) {
	buf := newLogBuffer()
	buf.Write([]byte("Got message: Splat\n"))
	buf.Write([]byte("Unknown message: Foo\n"))
	snap := buf.Snapshot()
	if string(snap) != "Got message: Splat\nUnknown message: Foo\n" {
		t.Fatalf("unexpected snapshot %q", snap)
	}
}

func TestLogBufferTruncation(t *testing.T) {
	buf := &logBuffer{max: 10}
	buf.Write([]byte("hello world"))
	snap := buf.Snapshot()
	if string(snap) != "ello world" {
		t.Fatalf("expected 'ello world', got %q", snap)
	}
}

func TestLogBufferTruncatesToLine(t *testing.T) {
	buf := &logBuffer{max: 12}
	buf.Write([]byte("first\nsecond\nthird\n"))
	if snap := buf.Snapshot(); string(snap) != "third\n" {
		t.Fatalf("expected 'third\\n', got %q", snap)
	}
}

func TestLogBufferSnapshotCopy(t *testing.T) {
	buf := newLogBuffer()
	buf.Write([]byte("data"))
	snap := buf.Snapshot()
	snap[0] = 'X'
	if buf.Snapshot()[0] == 'X' {
		t.Fatal("Snapshot is not a copy; original data was modified")
	}
}

func TestLogBufferEmpty(t *testing.T) {
	if snap := newLogBuffer().Snapshot(); snap != nil {
		t.Fatalf("expected nil snapshot for empty buf, got %v", snap)
	}
}

func TestLogBufferConcurrent(t *testing.T) {
	buf := newLogBuffer()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf.Write([]byte("data"))
			buf.Snapshot()
		}()
	}
	wg.Wait()
}
