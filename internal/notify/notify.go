// Package notify models the transient, toast-style notifications surfaced to
// users. Notifications are fire-and-forget: there is no acknowledgement
// channel, and each entry auto-dismisses after a fixed duration.
package notify

import (
	"sync"
	"time"
)

// Level distinguishes the visual style of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// DefaultDismissAfter is how long a notification stays visible.
const DefaultDismissAfter = 10 * time.Second

// Notification is a single transient message.
type Notification struct {
	Level     Level
	Title     string
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notifier receives notifications as they are published.
type Notifier interface {
	Publish(n Notification)
}

// Feed retains published notifications until they expire, standing in for the
// toast stack a browser client would render. Active returns only entries that
// have not yet auto-dismissed.
type Feed struct {
	mu           sync.Mutex
	now          func() time.Time
	dismissAfter time.Duration
	entries      []Notification
}

// NewFeed constructs a feed. A non-positive dismissAfter falls back to
// DefaultDismissAfter.
func NewFeed(dismissAfter time.Duration, now func() time.Time) *Feed {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	if now == nil {
		now = time.Now
	}
	return &Feed{now: now, dismissAfter: dismissAfter}
}

// Publish stamps and retains the notification.
func (f *Feed) Publish(n Notification) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.ExpiresAt.IsZero() {
		n.ExpiresAt = n.CreatedAt.Add(f.dismissAfter)
	}
	f.dropExpiredLocked(now)
	f.entries = append(f.entries, n)
}

// Info publishes an informational notification, the style used for reminders.
func (f *Feed) Info(title, message string) {
	f.Publish(Notification{Level: LevelInfo, Title: title, Message: message})
}

// Success publishes a success notification.
func (f *Feed) Success(title, message string) {
	f.Publish(Notification{Level: LevelSuccess, Title: title, Message: message})
}

// Error publishes an error notification.
func (f *Feed) Error(title, message string) {
	f.Publish(Notification{Level: LevelError, Title: title, Message: message})
}

// Active returns the notifications that have not yet auto-dismissed, oldest
// first.
func (f *Feed) Active() []Notification {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dropExpiredLocked(f.now())
	out := make([]Notification, len(f.entries))
	copy(out, f.entries)
	return out
}

func (f *Feed) dropExpiredLocked(now time.Time) {
	kept := f.entries[:0]
	for _, entry := range f.entries {
		if entry.ExpiresAt.After(now) {
			kept = append(kept, entry)
		}
	}
	f.entries = kept
}
