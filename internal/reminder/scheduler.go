// Package reminder fires one-shot notifications at each calendar event's
// reminder time. Timers are tracked per event id and cancelled when the event
// is edited, deleted, or the reminder moves, so a stale timer can never fire.
package reminder

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/calendar"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/notify"
)

// Scheduler reconciles one-shot reminder timers against the event collection.
// It holds no persistent state of its own; every Sync derives the full timer
// set from the events passed in.
type Scheduler struct {
	mu       sync.Mutex
	now      func() time.Time
	notifier notify.Notifier
	logger   *slog.Logger
	timers   map[string]*time.Timer
	closed   bool
}

// NewScheduler constructs a scheduler publishing into the given notifier.
func NewScheduler(notifier notify.Notifier, now func() time.Time, logger *slog.Logger) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		now:      now,
		notifier: notifier,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
	}
}

// Sync reconciles timers against the supplied collection. Events whose
// reminder is strictly in the future get exactly one timer with delay
// reminder - now; any previously scheduled timer for the same id is cancelled
// first. Timers for ids absent from the collection are cancelled.
func (s *Scheduler) Sync(events []calendar.Event) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	now := s.now()
	seen := make(map[string]struct{}, len(events))

	for _, event := range events {
		seen[event.ID] = struct{}{}

		if existing, ok := s.timers[event.ID]; ok {
			existing.Stop()
			delete(s.timers, event.ID)
		}

		if !calendar.FutureReminder(event, now) {
			continue
		}

		delay := event.Reminder.Sub(now)
		id := event.ID
		title := event.Title
		s.timers[id] = time.AfterFunc(delay, func() { s.fire(id, title) })
		s.logger.Debug("reminder scheduled", "event_id", id, "delay", delay)
	}

	for id, timer := range s.timers {
		if _, ok := seen[id]; ok {
			continue
		}
		timer.Stop()
		delete(s.timers, id)
	}
}

// Cancel stops and forgets the timer for a single event id, if any.
func (s *Scheduler) Cancel(id string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Pending reports how many reminder timers are currently scheduled.
func (s *Scheduler) Pending() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close cancels every outstanding timer. Subsequent Sync calls are ignored.
func (s *Scheduler) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) fire(id, title string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	display := strings.TrimSpace(title)
	if display == "" {
		display = "Untitled event"
	}

	if s.notifier != nil {
		s.notifier.Publish(notify.Notification{
			Level:   notify.LevelInfo,
			Title:   "Reminder",
			Message: display,
		})
	}
	s.logger.Info("reminder fired", "event_id", id, "title", display)
}
