package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Memory.ReadText when nothing was written yet.
var ErrNotFound = errors.New("document not found")

// Memory keeps the document in process memory.
type Memory struct {
	mu     sync.Mutex
	text   string
	exists bool
	writes int
}

// NewMemory returns an in-memory port. A non-empty initial text is treated
// as an existing document.
func NewMemory(initial string) *Memory {
	return &Memory{text: initial, exists: initial != ""}
}

// Exists reports whether a document has been stored.
func (m *Memory) Exists(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists, nil
}

// ReadText returns the stored document.
func (m *Memory) ReadText(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return "", ErrNotFound
	}
	return m.text, nil
}

// WriteText replaces the stored document.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.exists = true
	m.writes++
	return nil
}

// Writes returns how many times WriteText succeeded.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
