package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/calendar"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

var (
	userCounter   uint64
	clientCounter uint64
	caseCounter   uint64
	taskCounter   uint64
	eventCounter  uint64
)

var referenceTime = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// NewUserRecord returns a deterministic user record with optional overrides.
func NewUserRecord(opts ...func(*persistence.User)) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	record := persistence.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// NewClientRecord returns a deterministic client record with optional overrides.
func NewClientRecord(opts ...func(*persistence.Client)) persistence.Client {
	idx := atomic.AddUint64(&clientCounter, 1)
	id := fmt.Sprintf("client-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	record := persistence.Client{
		ID:        id,
		Name:      fmt.Sprintf("Client %03d", idx),
		Email:     fmt.Sprintf("%s@example.com", id),
		Phone:     fmt.Sprintf("555-01%02d", idx%100),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// NewCaseRecord returns a deterministic case record tied to the provided
// client with optional overrides.
func NewCaseRecord(clientID string, opts ...func(*persistence.Case)) persistence.Case {
	idx := atomic.AddUint64(&caseCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	record := persistence.Case{
		ID:           fmt.Sprintf("case-%03d", idx),
		Title:        fmt.Sprintf("Matter %03d", idx),
		CaseNumber:   fmt.Sprintf("2025-CV-%04d", idx),
		ClientID:     clientID,
		CreatorID:    "user-001",
		Status:       "open",
		PracticeArea: "litigation",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// NewTaskRecord returns a deterministic task record with optional overrides.
func NewTaskRecord(opts ...func(*persistence.Task)) persistence.Task {
	idx := atomic.AddUint64(&taskCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	record := persistence.Task{
		ID:        fmt.Sprintf("task-%03d", idx),
		Title:     fmt.Sprintf("Task %03d", idx),
		Priority:  "medium",
		Status:    "todo",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// NewEvent returns a deterministic calendar event with optional overrides.
// Each event starts an hour after the previous fixture and lasts one hour.
func NewEvent(opts ...func(*calendar.Event)) calendar.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	event := calendar.Event{
		ID:    fmt.Sprintf("event-%03d", idx),
		Title: fmt.Sprintf("Event %03d", idx),
		Type:  calendar.EventTypeMeeting,
		Start: start,
		End:   start.Add(time.Hour),
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}
