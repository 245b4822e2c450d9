package calendar

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/notify"
)

// ViewMode is the calendar layout currently presented.
type ViewMode string

const (
	ViewMonth  ViewMode = "month"
	ViewWeek   ViewMode = "week"
	ViewDay    ViewMode = "day"
	ViewAgenda ViewMode = "agenda"
)

// Valid reports whether m is one of the supported layouts.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewMonth, ViewWeek, ViewDay, ViewAgenda:
		return true
	}
	return false
}

// FilterAll shows every event regardless of category.
const FilterAll = "all"

// Projection is an event prepared for rendering: the store entry plus its
// resolved display color.
type Projection struct {
	Event Event
	Color string
}

// View projects the store's collection onto a calendar widget. View mode,
// focus date and the type filter are local UI state, held independently of the
// store and never persisted.
type View struct {
	mu       sync.Mutex
	store    *Store
	notifier notify.Notifier
	now      func() time.Time

	mode   ViewMode
	date   time.Time
	filter string
	loc    *time.Location
}

// NewView constructs a month view focused on the current date.
func NewView(store *Store, notifier notify.Notifier, now func() time.Time) *View {
	if now == nil {
		now = time.Now
	}
	return &View{
		store:    store,
		notifier: notifier,
		now:      now,
		mode:     ViewMonth,
		date:     now(),
		filter:   FilterAll,
		loc:      time.Local,
	}
}

// SetMode switches the calendar layout. Unknown modes are rejected.
func (v *View) SetMode(mode ViewMode) error {
	if !mode.Valid() {
		return fmt.Errorf("calendar: unknown view mode %q", mode)
	}
	v.mu.Lock()
	v.mode = mode
	v.mu.Unlock()
	return nil
}

// Mode returns the current layout.
func (v *View) Mode() ViewMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// SetDate moves the view focus.
func (v *View) SetDate(date time.Time) {
	v.mu.Lock()
	v.date = date
	v.mu.Unlock()
}

// Date returns the current focus date.
func (v *View) Date() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.date
}

// SetFilter selects a single event type, or FilterAll. Values outside the
// closed set are rejected so a stale filter cannot silently hide everything.
func (v *View) SetFilter(filter string) error {
	if filter != FilterAll && !EventType(filter).Valid() {
		return fmt.Errorf("calendar: unknown event type filter %q", filter)
	}
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
	return nil
}

// Filter returns the selected type filter.
func (v *View) Filter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Projections returns the filtered collection with resolved colors, ordered by
// start time. The filter is re-applied on every call; nothing is cached.
func (v *View) Projections() []Projection {
	v.mu.Lock()
	filter := v.filter
	v.mu.Unlock()
	return v.projectionsFor(filter)
}

func (v *View) projectionsFor(filter string) []Projection {
	events := v.store.Events()
	out := make([]Projection, 0, len(events))
	for _, event := range events {
		if filter != FilterAll && string(event.Type) != filter {
			continue
		}
		out = append(out, Projection{Event: event, Color: ColorFor(event.Type)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Event.Start.Equal(out[j].Event.Start) {
			return out[i].Event.ID < out[j].Event.ID
		}
		return out[i].Event.Start.Before(out[j].Event.Start)
	})
	return out
}

// VisibleRange computes the half-open [start, end) window the widget renders
// for the current mode and focus date. Agenda shows the upcoming month.
func (v *View) VisibleRange() (time.Time, time.Time) {
	v.mu.Lock()
	mode, date, loc := v.mode, v.date, v.loc
	v.mu.Unlock()
	return visibleRange(mode, date, loc)
}

// Window is one rendered calendar slice: the resolved mode, its visible
// range, and the filtered projections inside it.
type Window struct {
	Mode        ViewMode
	RangeStart  time.Time
	RangeEnd    time.Time
	Projections []Projection
}

// Project renders a window for the given mode, focus date and filter without
// touching the view's own state, so concurrent callers never observe each
// other's selections. Empty mode or filter and a zero date fall back to the
// view's current settings.
func (v *View) Project(mode ViewMode, date time.Time, filter string) (Window, error) {
	v.mu.Lock()
	if mode == "" {
		mode = v.mode
	}
	if date.IsZero() {
		date = v.date
	}
	if filter == "" {
		filter = v.filter
	}
	loc := v.loc
	v.mu.Unlock()

	if !mode.Valid() {
		return Window{}, fmt.Errorf("calendar: unknown view mode %q", mode)
	}
	if filter != FilterAll && !EventType(filter).Valid() {
		return Window{}, fmt.Errorf("calendar: unknown event type filter %q", filter)
	}

	start, end := visibleRange(mode, date, loc)
	return Window{
		Mode:        mode,
		RangeStart:  start,
		RangeEnd:    end,
		Projections: v.projectionsFor(filter),
	}, nil
}

func visibleRange(mode ViewMode, date time.Time, loc *time.Location) (time.Time, time.Time) {
	switch mode {
	case ViewDay:
		start := startOfDay(date, loc)
		return start, start.AddDate(0, 0, 1)
	case ViewWeek:
		start := startOfWeek(date, loc)
		return start, start.AddDate(0, 0, 7)
	case ViewAgenda:
		start := startOfDay(date, loc)
		return start, start.AddDate(0, 1, 0)
	default:
		start := startOfMonth(date, loc)
		return start, start.AddDate(0, 1, 0)
	}
}

// SelectSlot translates a click on an empty slot into a create flow and
// returns the opened editor.
func (v *View) SelectSlot(slotStart time.Time) (*Editor, error) {
	editor := NewEditor(v.store, v.notifier, v.now)
	if err := editor.OpenForCreate(slotStart); err != nil {
		return nil, err
	}
	return editor, nil
}

// SelectEvent translates a click on an existing event into an edit flow and
// returns the opened editor.
func (v *View) SelectEvent(id string) (*Editor, error) {
	event, ok := v.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("calendar: event %s not found", id)
	}
	editor := NewEditor(v.store, v.notifier, v.now)
	if err := editor.OpenForEdit(event); err != nil {
		return nil, err
	}
	return editor, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func startOfWeek(t time.Time, loc *time.Location) time.Time {
	start := startOfDay(t, loc)
	// Monday starts the week; Go counts Monday as 1, Sunday as 0.
	offset := (int(start.Weekday()) + 6) % 7
	return start.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time, loc *time.Location) time.Time {
	start := startOfDay(t, loc)
	return time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
}
