// Package notify keeps short-lived, non-blocking user notifications. Screens
// push toasts and the UI renders whatever has not expired yet.
package notify

import (
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// Level is the severity of a toast.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Toast is a single notification.
type Toast struct {
	ID      uint64
	Level   Level
	Title   string
	Message string
	At      time.Time
}

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 4 * time.Second

// Center stores toasts until they expire. It is safe for concurrent use.
type Center struct {
	items *cache.Cache
	seq   atomic.Uint64
	ttl   time.Duration
	now   func() time.Time
}

// NewCenter returns a Center whose toasts live for ttl (DefaultTTL when <= 0).
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		items: cache.New(ttl, 2*ttl),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Push stores a toast and returns it.
func (c *Center) Push(level Level, title, message string) Toast {
	t := Toast{
		ID:      c.seq.Add(1),
		Level:   level,
		Title:   title,
		Message: message,
		At:      c.now(),
	}
	c.items.Set(strconv.FormatUint(t.ID, 10), t, cache.DefaultExpiration)
	return t
}

func (c *Center) Info(title, message string) Toast    { return c.Push(LevelInfo, title, message) }
func (c *Center) Success(title, message string) Toast { return c.Push(LevelSuccess, title, message) }
func (c *Center) Warn(title, message string) Toast    { return c.Push(LevelWarning, title, message) }
func (c *Center) Error(title, message string) Toast   { return c.Push(LevelError, title, message) }

// Active returns unexpired toasts, oldest first.
func (c *Center) Active() []Toast {
	items := c.items.Items()
	out := make([]Toast, 0, len(items))
	for _, item := range items {
		if t, ok := item.Object.(Toast); ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Latest returns the newest unexpired toast.
func (c *Center) Latest() (Toast, bool) {
	active := c.Active()
	if len(active) == 0 {
		return Toast{}, false
	}
	return active[len(active)-1], true
}

// Dismiss removes a toast before it expires.
func (c *Center) Dismiss(id uint64) {
	c.items.Delete(strconv.FormatUint(id, 10))
}

// Clear removes every toast.
func (c *Center) Clear() {
	c.items.Flush()
}
