package logging

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// HeldWriter passes writes through to an underlying writer except while it
// is held. Held writes are buffered, up to a byte limit, and flushed by
// Release. Each slog record is a single Write, so records past the limit are
// dropped whole and counted.
type HeldWriter struct {
	mu      sync.Mutex
	w       io.Writer
	limit   int
	held    bool
	buf     bytes.Buffer
	dropped int
}

// NewHeldWriter wraps w. limit bounds the bytes buffered while held.
func NewHeldWriter(w io.Writer, limit int) *HeldWriter {
	return &HeldWriter{w: w, limit: limit}
}

// Write implements io.Writer.
func (h *HeldWriter) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.held {
		return h.w.Write(p)
	}
	if h.buf.Len()+len(p) > h.limit {
		h.dropped++
		return len(p), nil
	}
	return h.buf.Write(p)
}

// Hold starts buffering.
func (h *HeldWriter) Hold() {
	h.mu.Lock()
	h.held = true
	h.mu.Unlock()
}

// Release writes everything buffered since Hold, notes any dropped records,
// and resumes passing writes through.
func (h *HeldWriter) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.held = false
	_, err := h.buf.WriteTo(h.w)
	if h.dropped > 0 && err == nil {
		_, err = fmt.Fprintf(h.w, "%d log records dropped while output was held\n", h.dropped)
	}
	h.buf.Reset()
	h.dropped = 0
	return err
}
