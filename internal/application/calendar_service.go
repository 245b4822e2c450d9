package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/calendar"
)

// EventInput captures caller provided calendar event fields.
type EventInput struct {
	Title       string
	Description string
	Type        calendar.EventType
	Start       time.Time
	End         time.Time
	Reminder    *time.Time
}

// CalendarEvent is a calendar entry with its resolved display color.
type CalendarEvent struct {
	ID          string
	Title       string
	Description string
	Type        calendar.EventType
	Start       time.Time
	End         time.Time
	Reminder    *time.Time
	Color       string
}

// CalendarQuery selects the slice of the calendar to project.
type CalendarQuery struct {
	Mode   calendar.ViewMode
	Date   time.Time
	Filter string
}

// CalendarProjection is a rendered calendar window.
type CalendarProjection struct {
	Mode       calendar.ViewMode
	RangeStart time.Time
	RangeEnd   time.Time
	Events     []CalendarEvent
}

// CalendarService drives the event store and editor flow on behalf of
// transport handlers. Every mutation goes through an editor so the same
// validation and confirmation rules apply regardless of caller.
type CalendarService struct {
	store  *calendar.Store
	view   *calendar.View
	now    func() time.Time
	logger *slog.Logger
}

func NewCalendarService(store *calendar.Store, view *calendar.View, now func() time.Time, logger *slog.Logger) *CalendarService {
	if now == nil {
		now = time.Now
	}
	return &CalendarService{store: store, view: view, now: now, logger: logger}
}

// CreateEvent opens a create draft at the requested slot, applies the
// input, and saves.
func (s *CalendarService) CreateEvent(ctx context.Context, principal Principal, input EventInput) (CalendarEvent, error) {
	logger := serviceLogger(ctx, s.logger, "calendar_service", "create_event")

	editor, err := s.view.SelectSlot(input.Start)
	if err != nil {
		return CalendarEvent{}, err
	}
	saved, err := s.applyAndSave(ctx, editor, input)
	if err != nil {
		logger.Warn("event creation rejected", slog.String("error_kind", ErrorKind(err)))
		return CalendarEvent{}, err
	}

	logger.Info("event created", slog.String("event_id", saved.ID))
	return calendarEventFrom(saved), nil
}

// UpdateEvent opens an edit draft for the event, applies the input, and
// saves. The event identity cannot be changed.
func (s *CalendarService) UpdateEvent(ctx context.Context, principal Principal, eventID string, input EventInput) (CalendarEvent, error) {
	logger := serviceLogger(ctx, s.logger, "calendar_service", "update_event", slog.String("event_id", eventID))

	editor, err := s.view.SelectEvent(eventID)
	if err != nil {
		return CalendarEvent{}, ErrNotFound
	}
	saved, err := s.applyAndSave(ctx, editor, input)
	if err != nil {
		logger.Warn("event update rejected", slog.String("error_kind", ErrorKind(err)))
		return CalendarEvent{}, err
	}

	logger.Info("event updated")
	return calendarEventFrom(saved), nil
}

// DeleteEvent walks the confirmation flow for the event and removes it.
// Any scheduled reminder is cancelled by the store's reminder sync.
func (s *CalendarService) DeleteEvent(ctx context.Context, principal Principal, eventID string) error {
	logger := serviceLogger(ctx, s.logger, "calendar_service", "delete_event", slog.String("event_id", eventID))

	editor, err := s.view.SelectEvent(eventID)
	if err != nil {
		return ErrNotFound
	}
	if err := editor.RequestDelete(); err != nil {
		return err
	}
	if err := editor.ConfirmDelete(ctx); err != nil {
		logger.Error("event deletion failed", slog.String("error_kind", ErrorKind(err)))
		return err
	}

	logger.Info("event deleted")
	return nil
}

// GetEvent returns a single calendar entry.
func (s *CalendarService) GetEvent(ctx context.Context, principal Principal, eventID string) (CalendarEvent, error) {
	event, ok := s.store.Get(eventID)
	if !ok {
		return CalendarEvent{}, ErrNotFound
	}
	return calendarEventFrom(event), nil
}

// ListEvents projects the calendar for the requested mode, focus date,
// and type filter. The query is resolved per call and never written back
// to the shared view, so concurrent listings cannot bleed into each other.
func (s *CalendarService) ListEvents(ctx context.Context, principal Principal, query CalendarQuery) (CalendarProjection, error) {
	mode := query.Mode
	if mode == "" {
		mode = s.view.Mode()
	}
	if !mode.Valid() {
		verr := &ValidationError{}
		verr.add("mode", "mode must be one of month, week, day, agenda")
		return CalendarProjection{}, verr
	}

	filter := query.Filter
	if filter == "" {
		filter = calendar.FilterAll
	}
	if filter != calendar.FilterAll && !calendar.EventType(filter).Valid() {
		verr := &ValidationError{}
		verr.add("filter", "filter must be an event type or all")
		return CalendarProjection{}, verr
	}

	date := query.Date
	if date.IsZero() {
		date = s.now()
	}

	window, err := s.view.Project(mode, date, filter)
	if err != nil {
		return CalendarProjection{}, err
	}

	events := make([]CalendarEvent, 0, len(window.Projections))
	for _, p := range window.Projections {
		events = append(events, CalendarEvent{
			ID:          p.Event.ID,
			Title:       p.Event.Title,
			Description: p.Event.Description,
			Type:        p.Event.Type,
			Start:       p.Event.Start,
			End:         p.Event.End,
			Reminder:    p.Event.Reminder,
			Color:       p.Color,
		})
	}

	return CalendarProjection{
		Mode:       window.Mode,
		RangeStart: window.RangeStart,
		RangeEnd:   window.RangeEnd,
		Events:     events,
	}, nil
}

// AllEvents returns the full collection without view filtering, for
// feeds and search indexing.
func (s *CalendarService) AllEvents(ctx context.Context) []CalendarEvent {
	events := s.store.Events()
	out := make([]CalendarEvent, 0, len(events))
	for _, event := range events {
		out = append(out, calendarEventFrom(event))
	}
	return out
}

func (s *CalendarService) applyAndSave(ctx context.Context, editor *calendar.Editor, input EventInput) (calendar.Event, error) {
	draft := editor.Draft()
	draft.Title = input.Title
	draft.Description = input.Description
	if input.Type != "" {
		draft.Type = input.Type
	}
	if !input.Start.IsZero() {
		draft.Start = input.Start
	}
	if !input.End.IsZero() {
		draft.End = input.End
	}
	draft.Reminder = input.Reminder

	if err := editor.SetDraft(draft); err != nil {
		return calendar.Event{}, err
	}
	saved, err := editor.Save(ctx)
	if err != nil {
		var invalid *calendar.InvalidDraftError
		if errors.As(err, &invalid) {
			return calendar.Event{}, &ValidationError{FieldErrors: invalid.FieldErrors}
		}
		return calendar.Event{}, err
	}
	return saved, nil
}

func calendarEventFrom(event calendar.Event) CalendarEvent {
	out := CalendarEvent{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Type:        event.Type,
		Start:       event.Start,
		End:         event.End,
		Color:       calendar.ColorFor(event.Type),
	}
	if event.Reminder != nil {
		reminder := *event.Reminder
		out.Reminder = &reminder
	}
	return out
}
