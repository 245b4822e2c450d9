package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/notify"
)

// EditorState is the tagged state of the event editor. Exactly one state is
// active at a time; there are no independent visibility flags to fall out of
// sync with each other.
type EditorState string

const (
	// EditorClosed means no dialog is open and no draft exists.
	EditorClosed EditorState = "closed"
	// EditorCreating means a blank draft seeded from a selected slot is open.
	EditorCreating EditorState = "creating"
	// EditorEditing means a draft prefilled from an existing event is open.
	EditorEditing EditorState = "editing"
	// EditorConfirmingDelete means the delete confirmation is showing on top
	// of an editing draft.
	EditorConfirmingDelete EditorState = "confirming_delete"
)

// DefaultEventDuration seeds the end time when a draft is created from a slot.
const DefaultEventDuration = time.Hour

// untitledPlaceholder names events without a title in user-facing messages.
const untitledPlaceholder = "Untitled event"

// Draft holds the editable fields of the event being created or edited.
type Draft struct {
	ID          string
	Title       string
	Description string
	Type        EventType
	Start       time.Time
	End         time.Time
	Reminder    *time.Time
}

// InvalidDraftError reports field-level problems found when saving a draft.
type InvalidDraftError struct {
	FieldErrors map[string]string
}

func (e *InvalidDraftError) Error() string {
	return "invalid event draft"
}

func (e *InvalidDraftError) add(field, message string) {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string]string)
	}
	e.FieldErrors[field] = message
}

func (e *InvalidDraftError) hasErrors() bool {
	return e != nil && len(e.FieldErrors) > 0
}

// ErrEditorConflict is returned when an operation is attempted from a state
// that does not allow it.
var ErrEditorConflict = fmt.Errorf("calendar: operation not allowed in current editor state")

// Editor drives the create/select/edit/delete flow for a single event. It is
// not safe for concurrent use; callers own one editor per interaction.
type Editor struct {
	state    EditorState
	draft    Draft
	store    *Store
	notifier notify.Notifier
	now      func() time.Time
}

// NewEditor constructs a closed editor bound to the store. notifier may be nil
// when no user-visible feedback is wanted.
func NewEditor(store *Store, notifier notify.Notifier, now func() time.Time) *Editor {
	if now == nil {
		now = time.Now
	}
	return &Editor{state: EditorClosed, store: store, notifier: notifier, now: now}
}

// State returns the current editor state.
func (e *Editor) State() EditorState {
	if e == nil {
		return EditorClosed
	}
	return e.state
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() Draft {
	if e == nil {
		return Draft{}
	}
	return e.draft.cloned()
}

// OpenForCreate starts a blank draft from the selected slot. The end time is
// always the fixed default duration after the start, the type defaults to
// "meeting", and no reminder is set.
func (e *Editor) OpenForCreate(slotStart time.Time) error {
	if e == nil {
		return fmt.Errorf("calendar editor is nil")
	}
	if e.state != EditorClosed {
		return ErrEditorConflict
	}
	e.draft = Draft{
		Type:  EventTypeMeeting,
		Start: slotStart,
		End:   slotStart.Add(DefaultEventDuration),
	}
	e.state = EditorCreating
	return nil
}

// OpenForEdit starts a draft prefilled from an existing event.
func (e *Editor) OpenForEdit(event Event) error {
	if e == nil {
		return fmt.Errorf("calendar editor is nil")
	}
	if e.state != EditorClosed {
		return ErrEditorConflict
	}
	e.draft = Draft{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Type:        event.Type,
		Start:       event.Start,
		End:         event.End,
	}
	if event.Reminder != nil {
		reminder := *event.Reminder
		e.draft.Reminder = &reminder
	}
	e.state = EditorEditing
	return nil
}

// SetDraft replaces the editable fields of the open draft. The draft identity
// cannot be changed once opened.
func (e *Editor) SetDraft(draft Draft) error {
	if e == nil {
		return fmt.Errorf("calendar editor is nil")
	}
	if e.state != EditorCreating && e.state != EditorEditing {
		return ErrEditorConflict
	}
	id := e.draft.ID
	e.draft = draft.cloned()
	e.draft.ID = id
	return nil
}

// Save validates the draft and commits it to the store. Drafts without an ID
// are minted one by the store. On success the editor transitions to closed.
func (e *Editor) Save(ctx context.Context) (Event, error) {
	if e == nil {
		return Event{}, fmt.Errorf("calendar editor is nil")
	}
	if e.state != EditorCreating && e.state != EditorEditing {
		return Event{}, ErrEditorConflict
	}
	if e.store == nil {
		return Event{}, fmt.Errorf("calendar editor has no store")
	}

	if err := validateDraft(e.draft); err != nil {
		return Event{}, err
	}

	event := Event{
		ID:          e.draft.ID,
		Title:       strings.TrimSpace(e.draft.Title),
		Description: e.draft.Description,
		Type:        e.draft.Type,
		Start:       e.draft.Start,
		End:         e.draft.End,
	}
	if e.draft.Reminder != nil {
		reminder := *e.draft.Reminder
		event.Reminder = &reminder
	}

	saved, err := e.store.Upsert(ctx, event)
	if err != nil {
		return Event{}, err
	}

	e.draft = Draft{}
	e.state = EditorClosed
	return saved, nil
}

// RequestDelete transitions from editing to the delete confirmation sub-state.
func (e *Editor) RequestDelete() error {
	if e == nil {
		return fmt.Errorf("calendar editor is nil")
	}
	if e.state != EditorEditing || e.draft.ID == "" {
		return ErrEditorConflict
	}
	e.state = EditorConfirmingDelete
	return nil
}

// CancelDelete returns to editing with no store mutation.
func (e *Editor) CancelDelete() error {
	if e == nil {
		return fmt.Errorf("calendar editor is nil")
	}
	if e.state != EditorConfirmingDelete {
		return ErrEditorConflict
	}
	e.state = EditorEditing
	return nil
}

// ConfirmDelete removes the event from the store, announces the deletion with
// the event title (or a placeholder when untitled), and closes the editor.
func (e *Editor) ConfirmDelete(ctx context.Context) error {
	if e == nil {
		return fmt.Errorf("calendar editor is nil")
	}
	if e.state != EditorConfirmingDelete {
		return ErrEditorConflict
	}
	if e.store == nil {
		return fmt.Errorf("calendar editor has no store")
	}

	title := strings.TrimSpace(e.draft.Title)
	if title == "" {
		title = untitledPlaceholder
	}

	if _, err := e.store.Remove(ctx, e.draft.ID); err != nil {
		return err
	}

	if e.notifier != nil {
		e.notifier.Publish(notify.Notification{
			Level:   notify.LevelSuccess,
			Title:   "Event deleted",
			Message: fmt.Sprintf("%s was removed from the calendar", title),
		})
	}

	e.draft = Draft{}
	e.state = EditorClosed
	return nil
}

// Cancel abandons the draft from any open state.
func (e *Editor) Cancel() {
	if e == nil {
		return
	}
	e.draft = Draft{}
	e.state = EditorClosed
}

func (d Draft) cloned() Draft {
	out := d
	if d.Reminder != nil {
		reminder := *d.Reminder
		out.Reminder = &reminder
	}
	return out
}

func validateDraft(draft Draft) error {
	vErr := &InvalidDraftError{}

	if strings.TrimSpace(draft.Title) == "" {
		vErr.add("title", "title is required")
	}
	if draft.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if draft.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !draft.Start.IsZero() && !draft.End.IsZero() && !draft.Start.Before(draft.End) {
		vErr.add("time", "start must be before end")
	}
	if draft.Type != "" && !draft.Type.Valid() {
		vErr.add("type", "unknown event type")
	}
	if vErr.hasErrors() {
		return vErr
	}
	return nil
}
