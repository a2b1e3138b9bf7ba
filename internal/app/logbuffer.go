package app

import (
	"strings"
	"sync"
)

const defaultLogLines = 200

// LogBuffer keeps the most recent log lines for the log pane. It implements
// io.Writer so it can be handed to the logger as a tee.
type LogBuffer struct {
	mu      sync.Mutex
	lines   []string
	partial string
	limit   int
	notify  chan struct{}
}

// NewLogBuffer returns a buffer keeping at most limit lines.
func NewLogBuffer(limit int) *LogBuffer {
	if limit <= 0 {
		limit = defaultLogLines
	}
	return &LogBuffer{limit: limit, notify: make(chan struct{}, 1)}
}

// Write appends complete lines. A trailing fragment is held until its newline arrives.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	text := b.partial + string(p)
	parts := strings.Split(text, "\n")
	b.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		if line = strings.TrimRight(line, "\r "); line != "" {
			b.lines = append(b.lines, line)
		}
	}
	if len(b.lines) > b.limit {
		b.lines = append([]string(nil), b.lines[len(b.lines)-b.limit:]...)
	}
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
	return len(p), nil
}

// String returns the buffered lines joined by newlines.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}

// Lines returns a copy of the buffered lines.
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// Updates signals after writes. Signals coalesce while unread.
func (b *LogBuffer) Updates() <-chan struct{} {
	return b.notify
}
