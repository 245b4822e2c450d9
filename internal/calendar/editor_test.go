package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/notify"
)

type notifierStub struct {
	published []notify.Notification
}

func (n *notifierStub) Publish(notification notify.Notification) {
	n.published = append(n.published, notification)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(&slotStub{}, nil, sequentialIDs("event"), nil)
	if err := store.Open(context.Background()); err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func TestEditor_OpenForCreate(t *testing.T) {
	slotStart := time.Date(2025, time.March, 3, 14, 0, 0, 0, time.UTC)

	t.Run("seeds the draft from the selected slot", func(t *testing.T) {
		editor := NewEditor(newTestStore(t), nil, nil)

		if err := editor.OpenForCreate(slotStart); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if editor.State() != EditorCreating {
			t.Fatalf("expected creating state, got %q", editor.State())
		}
		draft := editor.Draft()
		if !draft.Start.Equal(slotStart) {
			t.Fatalf("expected start %v, got %v", slotStart, draft.Start)
		}
		if !draft.End.Equal(slotStart.Add(DefaultEventDuration)) {
			t.Fatalf("expected end one hour after start, got %v", draft.End)
		}
		if draft.Type != EventTypeMeeting {
			t.Fatalf("expected default meeting type, got %q", draft.Type)
		}
		if draft.Reminder != nil {
			t.Fatal("expected no reminder on a fresh draft")
		}
	})

	t.Run("rejected while another draft is open", func(t *testing.T) {
		editor := NewEditor(newTestStore(t), nil, nil)
		if err := editor.OpenForCreate(slotStart); err != nil {
			t.Fatalf("first open: %v", err)
		}
		if err := editor.OpenForCreate(slotStart); !errors.Is(err, ErrEditorConflict) {
			t.Fatalf("expected ErrEditorConflict, got %v", err)
		}
	})
}

func TestEditor_Save(t *testing.T) {
	slotStart := time.Date(2025, time.March, 3, 14, 0, 0, 0, time.UTC)

	t.Run("persists a valid draft and closes", func(t *testing.T) {
		store := newTestStore(t)
		editor := NewEditor(store, nil, nil)
		if err := editor.OpenForCreate(slotStart); err != nil {
			t.Fatalf("open: %v", err)
		}

		draft := editor.Draft()
		draft.Title = "Deposition"
		if err := editor.SetDraft(draft); err != nil {
			t.Fatalf("set draft: %v", err)
		}

		saved, err := editor.Save(context.Background())
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if saved.ID == "" {
			t.Fatal("expected the store to mint an id")
		}
		if editor.State() != EditorClosed {
			t.Fatalf("expected closed state after save, got %q", editor.State())
		}
		if store.Len() != 1 {
			t.Fatalf("expected one stored event, got %d", store.Len())
		}
	})

	t.Run("collects field errors instead of saving", func(t *testing.T) {
		store := newTestStore(t)
		editor := NewEditor(store, nil, nil)
		if err := editor.OpenForCreate(slotStart); err != nil {
			t.Fatalf("open: %v", err)
		}

		draft := editor.Draft()
		draft.Title = "   "
		draft.End = draft.Start.Add(-time.Minute)
		if err := editor.SetDraft(draft); err != nil {
			t.Fatalf("set draft: %v", err)
		}

		_, err := editor.Save(context.Background())
		var invalid *InvalidDraftError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidDraftError, got %v", err)
		}
		if _, ok := invalid.FieldErrors["title"]; !ok {
			t.Fatalf("expected a title error, got %v", invalid.FieldErrors)
		}
		if _, ok := invalid.FieldErrors["time"]; !ok {
			t.Fatalf("expected a time ordering error, got %v", invalid.FieldErrors)
		}
		if editor.State() != EditorCreating {
			t.Fatalf("expected editor to stay open, got %q", editor.State())
		}
		if store.Len() != 0 {
			t.Fatal("expected nothing persisted")
		}
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		editor := NewEditor(newTestStore(t), nil, nil)
		if err := editor.OpenForCreate(slotStart); err != nil {
			t.Fatalf("open: %v", err)
		}
		draft := editor.Draft()
		draft.Title = "Filing"
		draft.Type = "holiday"
		if err := editor.SetDraft(draft); err != nil {
			t.Fatalf("set draft: %v", err)
		}

		_, err := editor.Save(context.Background())
		var invalid *InvalidDraftError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidDraftError, got %v", err)
		}
		if _, ok := invalid.FieldErrors["type"]; !ok {
			t.Fatalf("expected a type error, got %v", invalid.FieldErrors)
		}
	})
}

func TestEditor_SetDraft(t *testing.T) {
	slotStart := time.Date(2025, time.March, 3, 14, 0, 0, 0, time.UTC)

	t.Run("identity cannot be changed", func(t *testing.T) {
		store := newTestStore(t)
		saved, err := store.Upsert(context.Background(), Event{Title: "Hearing", Type: EventTypeCourt, Start: slotStart, End: slotStart.Add(time.Hour)})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}

		editor := NewEditor(store, nil, nil)
		if err := editor.OpenForEdit(saved); err != nil {
			t.Fatalf("open: %v", err)
		}

		draft := editor.Draft()
		draft.ID = "spoofed"
		if err := editor.SetDraft(draft); err != nil {
			t.Fatalf("set draft: %v", err)
		}
		if editor.Draft().ID != saved.ID {
			t.Fatalf("expected id %q to be preserved, got %q", saved.ID, editor.Draft().ID)
		}
	})

	t.Run("rejected while closed", func(t *testing.T) {
		editor := NewEditor(newTestStore(t), nil, nil)
		if err := editor.SetDraft(Draft{Title: "x"}); !errors.Is(err, ErrEditorConflict) {
			t.Fatalf("expected ErrEditorConflict, got %v", err)
		}
	})
}

func TestEditor_DeleteFlow(t *testing.T) {
	slotStart := time.Date(2025, time.March, 3, 14, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, store *Store, title string) Event {
		t.Helper()
		saved, err := store.Upsert(context.Background(), Event{Title: title, Type: EventTypeMeeting, Start: slotStart, End: slotStart.Add(time.Hour)})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		return saved
	}

	t.Run("confirm removes the event and announces it", func(t *testing.T) {
		store := newTestStore(t)
		notifier := &notifierStub{}
		saved := seed(t, store, "Deposition")

		editor := NewEditor(store, notifier, nil)
		if err := editor.OpenForEdit(saved); err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := editor.RequestDelete(); err != nil {
			t.Fatalf("request delete: %v", err)
		}
		if editor.State() != EditorConfirmingDelete {
			t.Fatalf("expected confirming state, got %q", editor.State())
		}
		if err := editor.ConfirmDelete(context.Background()); err != nil {
			t.Fatalf("confirm delete: %v", err)
		}

		if store.Len() != 0 {
			t.Fatalf("expected empty store, got %d events", store.Len())
		}
		if editor.State() != EditorClosed {
			t.Fatalf("expected closed state, got %q", editor.State())
		}
		if len(notifier.published) != 1 {
			t.Fatalf("expected one notification, got %d", len(notifier.published))
		}
		n := notifier.published[0]
		if n.Level != notify.LevelSuccess {
			t.Fatalf("expected success level, got %q", n.Level)
		}
		if !strings.Contains(n.Message, "Deposition") {
			t.Fatalf("expected message to name the event, got %q", n.Message)
		}
	})

	t.Run("untitled events are announced with a placeholder", func(t *testing.T) {
		store := newTestStore(t)
		notifier := &notifierStub{}
		saved := seed(t, store, "")

		editor := NewEditor(store, notifier, nil)
		if err := editor.OpenForEdit(saved); err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := editor.RequestDelete(); err != nil {
			t.Fatalf("request delete: %v", err)
		}
		if err := editor.ConfirmDelete(context.Background()); err != nil {
			t.Fatalf("confirm delete: %v", err)
		}
		if len(notifier.published) != 1 || !strings.Contains(notifier.published[0].Message, "Untitled event") {
			t.Fatalf("expected the placeholder title, got %+v", notifier.published)
		}
	})

	t.Run("cancel returns to editing without mutation", func(t *testing.T) {
		store := newTestStore(t)
		saved := seed(t, store, "Hearing")

		editor := NewEditor(store, nil, nil)
		if err := editor.OpenForEdit(saved); err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := editor.RequestDelete(); err != nil {
			t.Fatalf("request delete: %v", err)
		}
		if err := editor.CancelDelete(); err != nil {
			t.Fatalf("cancel delete: %v", err)
		}
		if editor.State() != EditorEditing {
			t.Fatalf("expected editing state, got %q", editor.State())
		}
		if store.Len() != 1 {
			t.Fatal("expected the event to survive")
		}
	})

	t.Run("delete cannot start from a create draft", func(t *testing.T) {
		editor := NewEditor(newTestStore(t), nil, nil)
		if err := editor.OpenForCreate(slotStart); err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := editor.RequestDelete(); !errors.Is(err, ErrEditorConflict) {
			t.Fatalf("expected ErrEditorConflict, got %v", err)
		}
	})
}

func TestEditor_Cancel(t *testing.T) {
	editor := NewEditor(newTestStore(t), nil, nil)
	if err := editor.OpenForCreate(time.Now()); err != nil {
		t.Fatalf("open: %v", err)
	}
	editor.Cancel()
	if editor.State() != EditorClosed {
		t.Fatalf("expected closed state, got %q", editor.State())
	}
	if editor.Draft().Title != "" {
		t.Fatal("expected the draft to be discarded")
	}
}
