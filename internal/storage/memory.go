package storage

import (
	"context"
	"sync"
)

// Compile-time check that MemoryBackend implements Backend.
var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps the document in memory.
// Suitable for development and testing; contents are lost on exit.
type MemoryBackend struct {
	mu      sync.RWMutex
	data    []byte
	written bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Location implements Backend.
func (b *MemoryBackend) Location() string {
	return "memory://"
}

// Read returns a copy of the document.
func (b *MemoryBackend) Read(_ context.Context) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.written {
		return nil, ErrDocumentNotFound
	}
	return append([]byte(nil), b.data...), nil
}

// Write stores a copy of data.
func (b *MemoryBackend) Write(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	b.written = true
	return nil
}
