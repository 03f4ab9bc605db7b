package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 3 * time.Second

// Surface displays notifications. Show is called in arrival order.
type Surface interface {
	Show(n domain.Notification)
	Hide(n domain.Notification)
}

// SurfaceFactory creates the shared surface on first use.
type SurfaceFactory func() (Surface, error)

// Timer is the part of *time.Timer the channel needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option customises a Channel.
type Option func(*Channel)

// WithDuration overrides the display duration.
func WithDuration(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithAfterFunc replaces the timer source.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Channel) { c.after = f }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Channel) {
		if l != nil {
			c.logger = l
		}
	}
}

// Channel is a FIFO of self-expiring notifications shared by everything in the process.
// Each entry is removed by its own timer; later pushes never replace earlier entries.
type Channel struct {
	mu       sync.Mutex
	factory  SurfaceFactory
	surface  Surface
	entries  []domain.Notification
	timers   map[string]Timer
	duration time.Duration
	after    AfterFunc
	logger   *zap.Logger
	closed   bool
}

// New builds a channel. The surface is not created until the first Push.
func New(factory SurfaceFactory, opts ...Option) *Channel {
	c := &Channel{
		factory:  factory,
		timers:   make(map[string]Timer),
		duration: DefaultDuration,
		after:    realAfterFunc,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push shows message immediately and schedules its removal. It never blocks on the
// removal and silently drops the message when no surface can be created.
func (c *Channel) Push(message string, level domain.Level) {
	if c == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("notification surface panicked", zap.Any("panic", r))
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	surface := c.surfaceLocked()
	if surface == nil {
		return
	}

	n := domain.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Level:     level.Normalize(),
		CreatedAt: time.Now(),
	}
	c.entries = append(c.entries, n)
	surface.Show(n)
	c.timers[n.ID] = c.after(c.duration, func() { c.expire(n.ID) })
}

func (c *Channel) surfaceLocked() Surface {
	if c.surface != nil {
		return c.surface
	}
	if c.factory == nil {
		return nil
	}
	s, err := c.factory()
	if err != nil || s == nil {
		c.logger.Debug("notification surface unavailable", zap.Error(err))
		return nil
	}
	c.surface = s
	return s
}

func (c *Channel) expire(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.timers, id)
	for i, n := range c.entries {
		if n.ID != id {
			continue
		}
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		if c.surface != nil {
			c.surface.Hide(n)
		}
		return
	}
}

// Entries returns the visible notifications in arrival order.
func (c *Channel) Entries() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Notification, len(c.entries))
	copy(out, c.entries)
	return out
}

// Close stops pending timers and drops further pushes.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}
