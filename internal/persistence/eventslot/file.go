// Package eventslot persists the calendar event collection as a single JSON
// document: an array of event objects with RFC 3339 timestamp strings. The
// whole collection is rewritten on every save, mirroring the local-storage
// slot the web client keeps.
package eventslot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/calendar"
)

// File stores the event collection in a JSON file, written atomically via a
// temp file and rename so a crash mid-write cannot corrupt the slot.
type File struct {
	path string
}

// NewFile returns a file-backed slot at the given path. The file is created
// lazily on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Open validates the target location, creating the parent directory if needed.
func (f *File) Open(ctx context.Context) error {
	if f == nil || f.path == "" {
		return errors.New("eventslot: path is empty")
	}
	return os.MkdirAll(filepath.Dir(f.path), 0o700)
}

// ReadAll loads the serialized collection. A missing file yields an empty
// collection; malformed content is reported to the caller to decide on.
func (f *File) ReadAll(ctx context.Context) ([]calendar.Event, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("eventslot: read %s: %w", f.path, err)
	}

	var records []eventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("eventslot: decode %s: %w", f.path, err)
	}

	events := make([]calendar.Event, 0, len(records))
	for _, record := range records {
		event, err := record.toEvent()
		if err != nil {
			return nil, fmt.Errorf("eventslot: decode %s: %w", f.path, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// WriteAll serializes the full collection and replaces the slot contents.
func (f *File) WriteAll(ctx context.Context, events []calendar.Event) error {
	records := make([]eventRecord, 0, len(events))
	for _, event := range events {
		records = append(records, toRecord(event))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("eventslot: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".events-*.tmp")
	if err != nil {
		return fmt.Errorf("eventslot: write %s: %w", f.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("eventslot: write %s: %w", f.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("eventslot: write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("eventslot: write %s: %w", f.path, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("eventslot: write %s: %w", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("eventslot: write %s: %w", f.path, err)
	}
	return nil
}

// Close releases nothing; the slot holds no open handles between operations.
func (f *File) Close() error {
	return nil
}

// eventRecord is the on-disk shape of a single event.
type eventRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Reminder    string `json:"reminder,omitempty"`
}

func toRecord(event calendar.Event) eventRecord {
	record := eventRecord{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Type:        string(event.Type),
		Start:       event.Start.Format(time.RFC3339Nano),
		End:         event.End.Format(time.RFC3339Nano),
	}
	if event.Reminder != nil {
		record.Reminder = event.Reminder.Format(time.RFC3339Nano)
	}
	return record
}

func (r eventRecord) toEvent() (calendar.Event, error) {
	start, err := parseTimestamp(r.Start)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("event %s: invalid start: %w", r.ID, err)
	}
	end, err := parseTimestamp(r.End)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("event %s: invalid end: %w", r.ID, err)
	}

	event := calendar.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        calendar.EventType(r.Type),
		Start:       start,
		End:         end,
	}
	if r.Reminder != "" {
		reminder, err := parseTimestamp(r.Reminder)
		if err != nil {
			return calendar.Event{}, fmt.Errorf("event %s: invalid reminder: %w", r.ID, err)
		}
		event.Reminder = &reminder
	}
	return event, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}
