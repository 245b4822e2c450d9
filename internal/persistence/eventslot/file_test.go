package eventslot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/calendar"
)

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	slot := NewFile(path)
	ctx := context.Background()

	if err := slot.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}

	reminder := time.Date(2025, time.March, 5, 8, 30, 0, 0, time.UTC)
	events := []calendar.Event{
		{
			ID:          "ev-1",
			Title:       "Status conference",
			Description: "Courtroom 4B",
			Type:        calendar.EventTypeCourt,
			Start:       time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC),
			End:         time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC),
			Reminder:    &reminder,
		},
		{
			ID:    "ev-2",
			Title: "File motion",
			Type:  calendar.EventTypeTask,
			Start: time.Date(2025, time.March, 6, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.March, 6, 9, 30, 0, 0, time.UTC),
		},
	}
	if err := slot.WriteAll(ctx, events); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := slot.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 events, got %d", len(loaded))
	}
	if loaded[0].ID != "ev-1" || loaded[0].Title != "Status conference" || loaded[0].Description != "Courtroom 4B" {
		t.Fatalf("unexpected first event: %+v", loaded[0])
	}
	if loaded[0].Type != calendar.EventTypeCourt {
		t.Fatalf("expected type %q, got %q", calendar.EventTypeCourt, loaded[0].Type)
	}
	if !loaded[0].Start.Equal(events[0].Start) || !loaded[0].End.Equal(events[0].End) {
		t.Fatalf("timestamps did not survive the round trip: %+v", loaded[0])
	}
	if loaded[0].Reminder == nil || !loaded[0].Reminder.Equal(reminder) {
		t.Fatalf("expected reminder %v, got %v", reminder, loaded[0].Reminder)
	}
	if loaded[1].Reminder != nil {
		t.Fatalf("expected no reminder on the second event, got %v", loaded[1].Reminder)
	}
}

func TestFile_ReadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file yields an empty collection", func(t *testing.T) {
		slot := NewFile(filepath.Join(t.TempDir(), "absent.json"))
		events, err := slot.ReadAll(ctx)
		if err != nil {
			t.Fatalf("expected no error for a missing file, got %v", err)
		}
		if len(events) != 0 {
			t.Fatalf("expected no events, got %d", len(events))
		}
	})

	t.Run("malformed json surfaces an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := NewFile(path).ReadAll(ctx); err == nil {
			t.Fatal("expected a decode error")
		}
	})

	t.Run("invalid timestamp surfaces an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.json")
		payload := `[{"id":"ev-1","title":"Bad","type":"meeting","start":"yesterday","end":"2025-03-05T10:00:00Z"}]`
		if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := NewFile(path).ReadAll(ctx); err == nil {
			t.Fatal("expected a timestamp error")
		}
	})
}

func TestFile_WriteAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection writes an empty array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.json")
		slot := NewFile(path)
		if err := slot.WriteAll(ctx, nil); err != nil {
			t.Fatalf("write: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Fatalf("expected an empty JSON array, got %q", data)
		}
	})

	t.Run("reminder field is omitted when unset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.json")
		slot := NewFile(path)
		events := []calendar.Event{{
			ID:    "ev-1",
			Title: "No reminder",
			Type:  calendar.EventTypeMeeting,
			Start: time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC),
		}}
		if err := slot.WriteAll(ctx, events); err != nil {
			t.Fatalf("write: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if strings.Contains(string(data), `"reminder"`) {
			t.Fatalf("expected the reminder key to be omitted, got %s", data)
		}
	})

	t.Run("overwrite replaces the previous collection", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.json")
		slot := NewFile(path)
		first := []calendar.Event{{
			ID: "ev-1", Title: "First", Type: calendar.EventTypeMeeting,
			Start: time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC),
		}}
		second := []calendar.Event{{
			ID: "ev-2", Title: "Second", Type: calendar.EventTypeTask,
			Start: time.Date(2025, time.March, 6, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.March, 6, 10, 0, 0, 0, time.UTC),
		}}
		if err := slot.WriteAll(ctx, first); err != nil {
			t.Fatalf("write first: %v", err)
		}
		if err := slot.WriteAll(ctx, second); err != nil {
			t.Fatalf("write second: %v", err)
		}
		loaded, err := slot.ReadAll(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(loaded) != 1 || loaded[0].ID != "ev-2" {
			t.Fatalf("expected only the second collection, got %+v", loaded)
		}
	})
}

func TestFile_Open(t *testing.T) {
	t.Run("creates the parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deeper", "events.json")
		slot := NewFile(path)
		if err := slot.Open(context.Background()); err != nil {
			t.Fatalf("open: %v", err)
		}
		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			t.Fatalf("expected parent directory to exist: %v", err)
		}
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		if err := NewFile("").Open(context.Background()); err == nil {
			t.Fatal("expected an error for an empty path")
		}
	})
}
