package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/calendar"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/testfixtures"
)

type memorySlot struct {
	events []calendar.Event
}

func (m *memorySlot) Open(ctx context.Context) error { return nil }

func (m *memorySlot) ReadAll(ctx context.Context) ([]calendar.Event, error) {
	out := make([]calendar.Event, len(m.events))
	copy(out, m.events)
	return out, nil
}

func (m *memorySlot) WriteAll(ctx context.Context, events []calendar.Event) error {
	m.events = make([]calendar.Event, len(events))
	copy(m.events, events)
	return nil
}

func (m *memorySlot) Close() error { return nil }

func newTestCalendarService(t *testing.T, seed ...calendar.Event) (*CalendarService, *memorySlot) {
	t.Helper()
	slot := &memorySlot{events: seed}
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	store := calendar.NewStore(slot, nil, testfixtures.NewIDGenerator("event").Next, nil)
	if err := store.Open(context.Background()); err != nil {
		t.Fatalf("open store: %v", err)
	}
	view := calendar.NewView(store, nil, clock.Now)
	return NewCalendarService(store, view, clock.Now, nil), slot
}

func TestCalendarService_CreateEvent(t *testing.T) {
	start := testfixtures.ReferenceTime().Add(48 * time.Hour)

	t.Run("creates and persists an event", func(t *testing.T) {
		service, slot := newTestCalendarService(t)

		created, err := service.CreateEvent(context.Background(), staffPrincipal, EventInput{
			Title: "Settlement conference",
			Type:  calendar.EventTypeCourt,
			Start: start,
			End:   start.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == "" {
			t.Fatal("expected a minted id")
		}
		if created.Color != calendar.ColorFor(calendar.EventTypeCourt) {
			t.Fatalf("expected the court color, got %q", created.Color)
		}
		if len(slot.events) != 1 || slot.events[0].Title != "Settlement conference" {
			t.Fatalf("expected the event persisted, got %+v", slot.events)
		}
	})

	t.Run("empty input inherits slot defaults", func(t *testing.T) {
		service, _ := newTestCalendarService(t)

		created, err := service.CreateEvent(context.Background(), staffPrincipal, EventInput{
			Title: "Quick sync",
			Start: start,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.Type != calendar.EventTypeMeeting {
			t.Fatalf("expected the default type, got %q", created.Type)
		}
		if !created.End.Equal(start.Add(time.Hour)) {
			t.Fatalf("expected a one hour default duration, got %v", created.End)
		}
	})

	t.Run("invalid draft surfaces field errors", func(t *testing.T) {
		service, slot := newTestCalendarService(t)

		_, err := service.CreateEvent(context.Background(), staffPrincipal, EventInput{
			Start: start,
			End:   start.Add(-time.Hour),
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
		for _, field := range []string{"title", "time"} {
			if _, ok := verr.FieldErrors[field]; !ok {
				t.Fatalf("expected a %q field error, got %v", field, verr.FieldErrors)
			}
		}
		if len(slot.events) != 0 {
			t.Fatal("expected nothing persisted")
		}
	})
}

func TestCalendarService_UpdateEvent(t *testing.T) {
	existing := testfixtures.NewEvent()

	t.Run("replaces the event in place", func(t *testing.T) {
		service, slot := newTestCalendarService(t, existing)

		updated, err := service.UpdateEvent(context.Background(), staffPrincipal, existing.ID, EventInput{
			Title: "Rescheduled hearing",
			Type:  calendar.EventTypeCourt,
			Start: existing.Start.Add(time.Hour),
			End:   existing.End.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ID != existing.ID {
			t.Fatalf("expected the identity to survive, got %q", updated.ID)
		}
		if len(slot.events) != 1 || slot.events[0].Title != "Rescheduled hearing" {
			t.Fatalf("expected the replacement persisted, got %+v", slot.events)
		}
	})

	t.Run("unknown event maps to not found", func(t *testing.T) {
		service, _ := newTestCalendarService(t)

		_, err := service.UpdateEvent(context.Background(), staffPrincipal, "missing", EventInput{Title: "x"})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCalendarService_DeleteEvent(t *testing.T) {
	existing := testfixtures.NewEvent()

	t.Run("removes the event", func(t *testing.T) {
		service, slot := newTestCalendarService(t, existing)

		if err := service.DeleteEvent(context.Background(), staffPrincipal, existing.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if len(slot.events) != 0 {
			t.Fatalf("expected the event removed, got %+v", slot.events)
		}
	})

	t.Run("unknown event maps to not found", func(t *testing.T) {
		service, _ := newTestCalendarService(t)

		if err := service.DeleteEvent(context.Background(), staffPrincipal, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCalendarService_ListEvents(t *testing.T) {
	reference := testfixtures.ReferenceTime()
	court := testfixtures.NewEvent(func(e *calendar.Event) {
		e.Type = calendar.EventTypeCourt
	})
	meeting := testfixtures.NewEvent()
	service, _ := newTestCalendarService(t, court, meeting)

	t.Run("projects the requested window", func(t *testing.T) {
		projection, err := service.ListEvents(context.Background(), staffPrincipal, CalendarQuery{
			Mode: calendar.ViewWeek,
			Date: reference,
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if projection.Mode != calendar.ViewWeek {
			t.Fatalf("expected week mode, got %q", projection.Mode)
		}
		if !projection.RangeStart.Before(projection.RangeEnd) {
			t.Fatalf("expected an ordered range, got %v .. %v", projection.RangeStart, projection.RangeEnd)
		}
		if len(projection.Events) != 2 {
			t.Fatalf("expected both events, got %d", len(projection.Events))
		}
	})

	t.Run("filters by type", func(t *testing.T) {
		projection, err := service.ListEvents(context.Background(), staffPrincipal, CalendarQuery{
			Filter: string(calendar.EventTypeCourt),
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(projection.Events) != 1 || projection.Events[0].ID != court.ID {
			t.Fatalf("expected only the court event, got %+v", projection.Events)
		}
	})

	t.Run("unknown mode is a validation error", func(t *testing.T) {
		_, err := service.ListEvents(context.Background(), staffPrincipal, CalendarQuery{Mode: "quarter"})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
		if _, ok := verr.FieldErrors["mode"]; !ok {
			t.Fatalf("expected a mode field error, got %v", verr.FieldErrors)
		}
	})

	t.Run("unknown filter is a validation error", func(t *testing.T) {
		_, err := service.ListEvents(context.Background(), staffPrincipal, CalendarQuery{Filter: "banquet"})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
		if _, ok := verr.FieldErrors["filter"]; !ok {
			t.Fatalf("expected a filter field error, got %v", verr.FieldErrors)
		}
	})
}

func TestCalendarService_ListEventsIsolation(t *testing.T) {
	court := testfixtures.NewEvent(func(e *calendar.Event) {
		e.Type = calendar.EventTypeCourt
	})
	meeting := testfixtures.NewEvent()
	service, _ := newTestCalendarService(t, court, meeting)

	t.Run("listing does not mutate shared state", func(t *testing.T) {
		if _, err := service.ListEvents(context.Background(), staffPrincipal, CalendarQuery{
			Mode:   calendar.ViewDay,
			Filter: string(calendar.EventTypeCourt),
		}); err != nil {
			t.Fatalf("list: %v", err)
		}

		projection, err := service.ListEvents(context.Background(), staffPrincipal, CalendarQuery{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if projection.Mode != calendar.ViewMonth {
			t.Fatalf("earlier request's mode stuck: got %q", projection.Mode)
		}
		if len(projection.Events) != 2 {
			t.Fatalf("earlier request's filter stuck: got %d events, want 2", len(projection.Events))
		}
	})

	t.Run("concurrent listings keep their own filters", func(t *testing.T) {
		const rounds = 50
		var wg sync.WaitGroup
		errs := make(chan string, rounds*2)

		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				projection, err := service.ListEvents(context.Background(), staffPrincipal, CalendarQuery{
					Filter: string(calendar.EventTypeCourt),
				})
				if err != nil {
					errs <- err.Error()
					return
				}
				for _, event := range projection.Events {
					if event.Type != calendar.EventTypeCourt {
						errs <- "court listing contained a " + string(event.Type) + " event"
						return
					}
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				projection, err := service.ListEvents(context.Background(), staffPrincipal, CalendarQuery{
					Filter: calendar.FilterAll,
				})
				if err != nil {
					errs <- err.Error()
					return
				}
				if len(projection.Events) != 2 {
					errs <- "unfiltered listing lost an event"
					return
				}
			}
		}()
		wg.Wait()
		close(errs)
		if msg, ok := <-errs; ok {
			t.Fatal(msg)
		}
	})
}

func TestCalendarService_AllEvents(t *testing.T) {
	first := testfixtures.NewEvent()
	reminderAt := first.Start.Add(-30 * time.Minute)
	second := testfixtures.NewEvent(func(e *calendar.Event) {
		e.Reminder = &reminderAt
	})
	service, _ := newTestCalendarService(t, first, second)

	all := service.AllEvents(context.Background())
	if len(all) != 2 {
		t.Fatalf("expected 2 events, got %d", len(all))
	}
	for _, event := range all {
		if event.ID == second.ID {
			if event.Reminder == nil || !event.Reminder.Equal(reminderAt) {
				t.Fatalf("expected the reminder carried over, got %v", event.Reminder)
			}
		}
	}
}
