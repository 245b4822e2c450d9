package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/logging"
)

// Repository is the persistent slot backing the store. The whole collection is
// the unit of persistence: ReadAll is called once when the store opens and
// WriteAll after every mutation.
type Repository interface {
	Open(ctx context.Context) error
	ReadAll(ctx context.Context) ([]Event, error)
	WriteAll(ctx context.Context, events []Event) error
	Close() error
}

// ReminderSync receives the full collection after every successful mutation so
// reminder timers can be reconciled against it.
type ReminderSync interface {
	Sync(events []Event)
}

// Store owns the authoritative in-memory event collection. Mutations
// (Upsert/Remove, used by the editor) are serialized end to end, slot write
// included; any number of passive readers take snapshots concurrently.
type Store struct {
	// writeMu is held across an entire mutation, slot write included, so
	// WriteAll calls cannot reorder and leave the slot behind the memory.
	writeMu     sync.Mutex
	mu          sync.RWMutex
	events      []Event
	repo        Repository
	reminders   ReminderSync
	idGenerator func() string
	logger      *slog.Logger
}

// NewStore wires a store to its persistence slot. reminders may be nil when no
// reminder scheduling is wanted (tests, import tooling).
func NewStore(repo Repository, reminders ReminderSync, idGenerator func() string, logger *slog.Logger) *Store {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:        repo,
		reminders:   reminders,
		idGenerator: idGenerator,
		logger:      logger,
	}
}

// Open loads the persisted collection. A missing or malformed slot degrades to
// an empty collection with a logged warning rather than failing the mount.
func (s *Store) Open(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("calendar store is nil")
	}
	if s.repo == nil {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.Open(ctx); err != nil {
		return fmt.Errorf("open event slot: %w", err)
	}

	events, err := s.repo.ReadAll(ctx)
	if err != nil {
		s.loggerFor(ctx).WarnContext(ctx, "discarding unreadable event collection", "error", err)
		events = nil
	}

	s.mu.Lock()
	s.events = events
	s.mu.Unlock()

	if s.reminders != nil {
		s.reminders.Sync(s.Events())
	}
	return nil
}

// Close flushes nothing (every mutation already persisted) and releases the
// underlying slot.
func (s *Store) Close() error {
	if s == nil || s.repo == nil {
		return nil
	}
	return s.repo.Close()
}

// Events returns a snapshot of the collection in insertion order.
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.Clone())
	}
	return out
}

// Get returns the event with the given id.
func (s *Store) Get(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, event := range s.events {
		if event.ID == id {
			return event.Clone(), true
		}
	}
	return Event{}, false
}

// Upsert replaces the entry matching event.ID in place, or appends the event
// with a freshly minted id when it carries none. The stored event is returned.
func (s *Store) Upsert(ctx context.Context, event Event) (Event, error) {
	if s == nil {
		return Event{}, fmt.Errorf("calendar store is nil")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	previous := s.events
	s.events = s.snapshotLocked()

	stored := event.Clone()
	replaced := false
	if stored.ID != "" {
		for i := range s.events {
			if s.events[i].ID == stored.ID {
				s.events[i] = stored.Clone()
				replaced = true
				break
			}
		}
	}
	if !replaced {
		if stored.ID == "" {
			stored.ID = s.idGenerator()
		}
		s.events = append(s.events, stored.Clone())
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.persist(ctx, snapshot); err != nil {
		s.mu.Lock()
		s.events = previous
		s.mu.Unlock()
		return Event{}, err
	}
	return stored, nil
}

// Remove filters the event with the matching id out of the collection. It
// reports whether an event was removed.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("calendar store is nil")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	previous := s.events
	removed := false
	filtered := make([]Event, 0, len(s.events))
	for _, event := range s.events {
		if event.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, event)
	}
	s.events = filtered
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if !removed {
		return false, nil
	}
	if err := s.persist(ctx, snapshot); err != nil {
		s.mu.Lock()
		s.events = previous
		s.mu.Unlock()
		return false, err
	}
	return true, nil
}

// Len reports the collection size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *Store) snapshotLocked() []Event {
	out := make([]Event, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.Clone())
	}
	return out
}

// persist writes the full collection back to the slot, then reconciles
// reminder timers against the new contents.
func (s *Store) persist(ctx context.Context, snapshot []Event) error {
	if s.repo != nil {
		if err := s.repo.WriteAll(ctx, snapshot); err != nil {
			s.loggerFor(ctx).ErrorContext(ctx, "failed to persist event collection", "error", err, "events", len(snapshot))
			return fmt.Errorf("persist event collection: %w", err)
		}
	}
	if s.reminders != nil {
		s.reminders.Sync(snapshot)
	}
	return nil
}

func (s *Store) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return s.logger
}

// FutureReminder reports whether the event carries a reminder strictly after
// the supplied reference time.
func FutureReminder(event Event, reference time.Time) bool {
	return event.Reminder != nil && event.Reminder.After(reference)
}
