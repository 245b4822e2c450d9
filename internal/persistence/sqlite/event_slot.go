package sqlite

import (
	"context"
	"database/sql"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/calendar"
)

// EventSlot implements the calendar store's repository contract on SQLite.
// It keeps the slot's whole-collection semantics: WriteAll replaces the full
// table inside one transaction, preserving insertion order via a position
// column.
type EventSlot struct {
	db *DB
}

// NewEventSlot binds an event slot to the shared pool.
func NewEventSlot(db *DB) *EventSlot {
	return &EventSlot{db: db}
}

// Open is a no-op; the schema is provisioned by Migrate.
func (s *EventSlot) Open(ctx context.Context) error {
	return nil
}

// ReadAll loads the collection in stored order.
func (s *EventSlot) ReadAll(ctx context.Context) ([]calendar.Event, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT id, title, description, type, start_time, end_time, reminder_time
		 FROM calendar_events ORDER BY position`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []calendar.Event
	for rows.Next() {
		var (
			event                 calendar.Event
			eventType, start, end string
			reminder              = nullString(nil)
		)
		if err := rows.Scan(&event.ID, &event.Title, &event.Description, &eventType, &start, &end, &reminder); err != nil {
			return nil, mapError(err)
		}
		event.Type = calendar.EventType(eventType)
		if event.Start, err = parseTime(start); err != nil {
			return nil, err
		}
		if event.End, err = parseTime(end); err != nil {
			return nil, err
		}
		if event.Reminder, err = timePtr(reminder); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, mapError(rows.Err())
}

// WriteAll replaces the stored collection with the supplied one.
func (s *EventSlot) WriteAll(ctx context.Context, events []calendar.Event) error {
	return retry(ctx, func() error {
		err := s.db.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM calendar_events`); err != nil {
				return err
			}
			for position, event := range events {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO calendar_events (id, position, title, description, type, start_time, end_time, reminder_time)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
					event.ID, position, event.Title, event.Description, string(event.Type),
					formatTime(event.Start), formatTime(event.End), nullTime(event.Reminder),
				)
				if err != nil {
					return err
				}
			}
			return nil
		})
		return mapError(err)
	})
}

// Close is a no-op; the shared pool is owned by the composition root.
func (s *EventSlot) Close() error {
	return nil
}
