package gateways

import "sync"

// tailBuffer keeps the last maxBytes written to it.
// Writes always succeed so the child's pipe keeps draining.
type tailBuffer struct {
	mu        sync.Mutex
	maxBytes  int
	buf       []byte
	truncated bool
}

func newTailBuffer(maxBytes int) *tailBuffer {
	if maxBytes < 0 {
		maxBytes = 0
	}
	return &tailBuffer{maxBytes: maxBytes}
}

func (tb *tailBuffer) Write(p []byte) (int, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.maxBytes == 0 {
		tb.truncated = tb.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) >= tb.maxBytes {
		tb.buf = append(tb.buf[:0], p[len(p)-tb.maxBytes:]...)
		tb.truncated = true
		return len(p), nil
	}
	tb.buf = append(tb.buf, p...)
	if over := len(tb.buf) - tb.maxBytes; over > 0 {
		tb.buf = append(tb.buf[:0], tb.buf[over:]...)
		tb.truncated = true
	}
	return len(p), nil
}

// String returns the retained tail, prefixed with an ellipsis when older output was dropped
func (tb *tailBuffer) String() string {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.truncated && len(tb.buf) > 0 {
		return "..." + string(tb.buf)
	}
	return string(tb.buf)
}
