package session

import (
	"context"
	"sync"
)

// MemoryBackend keeps values for the lifetime of the process. It backs the elevated
// profile, whose credentials must not outlive the shell that created them.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryBackend builds an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]string)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.items[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	b.items[key] = value
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	for _, k := range keys {
		delete(b.items, k)
	}
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	b.items = make(map[string]string)
	b.mu.Unlock()
	return nil
}
