package protocol

import (
	"io"
	"sync"

	"piloop/debug"
)

// DefaultBufferSize bounds a Buffer; a stalled cycle cannot grow it forever
const DefaultBufferSize = 4096

// Buffer is a bounded byte queue filled by a transport's reader goroutine
// and drained by the control cycle. Bytes that do not fit are dropped.
type Buffer struct {
	mu      sync.Mutex
	data    []byte
	limit   int
	dropped int
}

// NewBuffer creates a buffer holding at most limit bytes (0 for the default)
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultBufferSize
	}
	return &Buffer{limit: limit}
}

// Write appends p. It never fails; overflow is counted in Dropped.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	room := b.limit - len(b.data)
	n := len(p)
	if n > room {
		b.dropped += n - room
		debug.Log("proto", "buffer full, dropped %d bytes", n-room)
		n = room
	}
	b.data = append(b.data, p[:n]...)
	return len(p), nil
}

func (b *Buffer) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

func (b *Buffer) ReadByte() (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) == 0 {
		return 0, io.EOF
	}
	c := b.data[0]
	b.data = b.data[1:]
	if len(b.data) == 0 {
		b.data = nil
	}
	return c, nil
}

// Dropped returns the number of bytes lost to overflow
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Reset discards buffered bytes
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.data = nil
	b.mu.Unlock()
}
