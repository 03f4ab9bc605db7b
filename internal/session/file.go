package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FileBackend persists values as a JSON object on disk so the standard profile
// survives restarts.
type FileBackend struct {
	path   string
	logger *zap.Logger

	mu    sync.RWMutex
	items map[string]string
}

// NewFileBackend loads path if it exists. An unreadable state file is moved aside and
// the backend starts empty, which reads as signed out.
func NewFileBackend(path string, logger *zap.Logger) (*FileBackend, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("session state file path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &FileBackend{
		path:   path,
		logger: logger,
		items:  make(map[string]string),
	}
	if err := b.load(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.items[key]
	return v, ok, nil
}

func (b *FileBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[key] = value
	return b.persistLocked()
}

func (b *FileBackend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := false
	for _, k := range keys {
		if _, ok := b.items[k]; ok {
			delete(b.items, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return b.persistLocked()
}

func (b *FileBackend) Close() error { return nil }

func (b *FileBackend) load() error {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read session state file: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}
	var items map[string]string
	if err := json.Unmarshal(raw, &items); err != nil {
		b.discard(err)
		return nil
	}
	if items != nil {
		b.items = items
	}
	return nil
}

// discard moves a corrupt state file out of the way so the next write starts clean.
func (b *FileBackend) discard(cause error) {
	aside := b.path + ".corrupt"
	if err := os.Rename(b.path, aside); err != nil {
		b.logger.Warn("discarding unreadable session state", zap.String("path", b.path), zap.Error(cause), zap.NamedError("rename_error", err))
		return
	}
	b.logger.Warn("discarding unreadable session state", zap.String("path", b.path), zap.String("moved_to", aside), zap.Error(cause))
}

func (b *FileBackend) persistLocked() error {
	raw, err := json.MarshalIndent(b.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session state file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("mkdir session state dir: %w", err)
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session state file: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace session state file: %w", err)
	}
	return nil
}
