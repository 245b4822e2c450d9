package calendar

import "time"

// EventType categorises a calendar event. The category drives visual styling
// only; no business rule branches on it.
type EventType string

const (
	EventTypeCourt    EventType = "court"
	EventTypeMeeting  EventType = "meeting"
	EventTypeTask     EventType = "task"
	EventTypeReminder EventType = "reminder"
	EventTypeOther    EventType = "other"
)

// EventTypes lists every recognised category in display order.
func EventTypes() []EventType {
	return []EventType{EventTypeCourt, EventTypeMeeting, EventTypeTask, EventTypeReminder, EventTypeOther}
}

// Valid reports whether the type is one of the closed set.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeCourt, EventTypeMeeting, EventTypeTask, EventTypeReminder, EventTypeOther:
		return true
	}
	return false
}

// Event is a calendar entry. ID is minted at creation time and never changes;
// every other field is editable through the editor.
type Event struct {
	ID          string
	Title       string
	Description string
	Type        EventType
	Start       time.Time
	End         time.Time
	Reminder    *time.Time
}

// Clone returns a deep copy so callers cannot mutate store-owned state.
func (e Event) Clone() Event {
	out := e
	if e.Reminder != nil {
		reminder := *e.Reminder
		out.Reminder = &reminder
	}
	return out
}

// DefaultColor is used for any category outside the closed set, which can
// happen when older persisted data carries a retired type value.
const DefaultColor = "#95a5a6"

// eventColors maps each category to its display color. Kept as a table rather
// than a switch so the mapping is inspectable from tests and admin tooling.
var eventColors = map[EventType]string{
	EventTypeCourt:    "#e74c3c",
	EventTypeMeeting:  "#3788d8",
	EventTypeTask:     "#2ecc71",
	EventTypeReminder: "#f39c12",
	EventTypeOther:    "#9b59b6",
}

// ColorFor returns the display color for a category, falling back to
// DefaultColor for unrecognised values.
func ColorFor(t EventType) string {
	if color, ok := eventColors[t]; ok {
		return color
	}
	return DefaultColor
}
