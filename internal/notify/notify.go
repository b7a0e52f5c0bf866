// Package notify carries transient, toast-style messages from the storefront
// components to whatever displays them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 5 * time.Second

type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Error   Kind = "error"
)

type Notification struct {
	ID        uuid.UUID
	Kind      Kind
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notifier is the shared notification channel every component reports to.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Center keeps the visible notifications and fans new ones out to
// subscribers. Expired notifications are dropped lazily.
type Center struct {
	ttl time.Duration
	now func() time.Time
	log *zap.Logger

	mtx    sync.Mutex
	active []Notification
	subs   []chan Notification
}

func NewCenter(ttl time.Duration, log *zap.Logger) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl: ttl,
		now: time.Now,
		log: log.Named("notify"),
	}
}

func (c *Center) Notify(kind Kind, message string) {
	now := c.now()
	n := Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mtx.Lock()
	c.active = append(c.prune(now), n)
	subs := c.subs
	c.mtx.Unlock()

	c.log.Debug("Notification", zap.String("kind", string(kind)), zap.String("message", message))

	for _, ch := range subs {
		select {
		case ch <- n:
		default:
			c.log.Warn("Dropping notification for slow subscriber", zap.String("id", n.ID.String()))
		}
	}
}

// Active returns the notifications that have not yet been auto-dismissed.
func (c *Center) Active() []Notification {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.active = c.prune(c.now())
	out := make([]Notification, len(c.active))
	copy(out, c.active)
	return out
}

// Dismiss removes a notification before its expiry.
func (c *Center) Dismiss(id uuid.UUID) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}

// Subscribe returns a channel receiving every later notification. Sends never
// block; a full channel misses notifications.
func (c *Center) Subscribe(buffer int) <-chan Notification {
	ch := make(chan Notification, buffer)
	c.mtx.Lock()
	c.subs = append(c.subs, ch)
	c.mtx.Unlock()
	return ch
}

// Must be called with mtx held.
func (c *Center) prune(now time.Time) []Notification {
	kept := c.active[:0]
	for _, n := range c.active {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	return kept
}

// Recorder is a Notifier that only remembers what it was told.
type Recorder struct {
	mtx   sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(kind Kind, message string) {
	r.mtx.Lock()
	r.items = append(r.items, Notification{Kind: kind, Message: message})
	r.mtx.Unlock()
}

func (r *Recorder) All() []Notification {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
