package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// WriterSurface prints each notification as a "[level] message" line.
type WriterSurface struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSurface returns a surface writing to w.
func NewWriterSurface(w io.Writer) *WriterSurface {
	return &WriterSurface{w: w}
}

// WriterFactory builds a SurfaceFactory around w; a nil writer yields no surface.
func WriterFactory(w io.Writer) SurfaceFactory {
	return func() (Surface, error) {
		if w == nil {
			return nil, fmt.Errorf("no output available")
		}
		return NewWriterSurface(w), nil
	}
}

func (s *WriterSurface) Show(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "[%s] %s\n", n.Level, n.Message)
}

// Hide is a no-op: terminal lines cannot be withdrawn.
func (s *WriterSurface) Hide(domain.Notification) {}
