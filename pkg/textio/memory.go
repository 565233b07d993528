package textio

import (
	"context"
	"sync"
)

// Memory is an in-process Store. The zero value holds the empty document.
type Memory struct {
	mu   sync.RWMutex
	text string
}

// NewMemory returns a Memory holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return ioErr(err, "write memory")
	}
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}

func (m *Memory) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ioErr(err, "read memory")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.text, nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
