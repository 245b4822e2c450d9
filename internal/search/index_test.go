package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
)

type calendarSourceStub struct {
	events []application.CalendarEvent
	reads  atomic.Int64
}

func (s *calendarSourceStub) AllEvents(ctx context.Context) []application.CalendarEvent {
	s.reads.Add(1)
	return s.events
}

type clientSourceStub struct {
	clients []application.Client
	err     error
}

func (s *clientSourceStub) ListClients(ctx context.Context, principal application.Principal) ([]application.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.clients, nil
}

type caseSourceStub struct {
	cases []application.Case
}

func (s *caseSourceStub) ListCases(ctx context.Context, params application.ListCasesParams) ([]application.Case, error) {
	return s.cases, nil
}

func testSources() (Sources, *calendarSourceStub) {
	start := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)
	calendarStub := &calendarSourceStub{events: []application.CalendarEvent{
		{ID: "ev-1", Title: "Deposition of witness", Description: "conference room B", Type: "meeting", Start: start, End: start.Add(time.Hour)},
		{ID: "ev-2", Title: "Filing deadline", Type: "task", Start: start.Add(24 * time.Hour), End: start.Add(25 * time.Hour)},
	}}
	sources := Sources{
		Calendar: calendarStub,
		Clients: &clientSourceStub{clients: []application.Client{
			{ID: "cl-1", Name: "Acme Holdings", Email: "legal@acme.example", Phone: "555-0100"},
		}},
		Cases: &caseSourceStub{cases: []application.Case{
			{ID: "ca-1", Title: "Acme v. Initech", CaseNumber: "2025-CV-0007", Status: "open", PracticeArea: "litigation"},
		}},
	}
	return sources, calendarStub
}

func TestIndex_Query(t *testing.T) {
	sources, _ := testSources()
	index := NewIndex(sources, time.Hour, nil)
	defer index.Close()
	index.Rebuild(context.Background())

	t.Run("matches across record kinds", func(t *testing.T) {
		hits := index.Query("acme", 0)
		if len(hits) != 2 {
			t.Fatalf("expected the client and the case, got %+v", hits)
		}
		kinds := map[Kind]bool{}
		for _, hit := range hits {
			kinds[hit.Kind] = true
		}
		if !kinds[KindClient] || !kinds[KindCase] {
			t.Fatalf("expected a client and a case hit, got %+v", hits)
		}
	})

	t.Run("all terms must match", func(t *testing.T) {
		hits := index.Query("deposition witness", 0)
		if len(hits) != 1 || hits[0].ID != "ev-1" {
			t.Fatalf("expected only the deposition event, got %+v", hits)
		}
		if hits := index.Query("deposition deadline", 0); len(hits) != 0 {
			t.Fatalf("expected no hits for terms spanning documents, got %+v", hits)
		}
	})

	t.Run("description matches too", func(t *testing.T) {
		hits := index.Query("conference room", 0)
		if len(hits) != 1 || hits[0].ID != "ev-1" {
			t.Fatalf("expected the event with the matching description, got %+v", hits)
		}
	})

	t.Run("practice area is searchable", func(t *testing.T) {
		hits := index.Query("litigation", 0)
		if len(hits) != 1 || hits[0].Kind != KindCase {
			t.Fatalf("expected the case, got %+v", hits)
		}
	})

	t.Run("empty query returns nothing", func(t *testing.T) {
		if hits := index.Query("   ", 0); hits != nil {
			t.Fatalf("expected nil, got %+v", hits)
		}
	})

	t.Run("limit caps the result count", func(t *testing.T) {
		hits := index.Query("acme", 1)
		if len(hits) != 1 {
			t.Fatalf("expected 1 hit, got %d", len(hits))
		}
	})
}

func TestIndex_Rebuild(t *testing.T) {
	t.Run("replaces stale documents", func(t *testing.T) {
		calendarStub := &calendarSourceStub{events: []application.CalendarEvent{
			{ID: "ev-1", Title: "Original title", Type: "meeting"},
		}}
		index := NewIndex(Sources{Calendar: calendarStub}, time.Hour, nil)
		defer index.Close()
		index.Rebuild(context.Background())

		if hits := index.Query("original", 0); len(hits) != 1 {
			t.Fatalf("expected the original event indexed, got %+v", hits)
		}

		calendarStub.events = []application.CalendarEvent{
			{ID: "ev-1", Title: "Renamed entry", Type: "meeting"},
		}
		index.Rebuild(context.Background())

		if hits := index.Query("original", 0); len(hits) != 0 {
			t.Fatalf("expected the stale document gone, got %+v", hits)
		}
		if hits := index.Query("renamed", 0); len(hits) != 1 {
			t.Fatalf("expected the renamed document, got %+v", hits)
		}
	})

	t.Run("a failing source does not poison the others", func(t *testing.T) {
		sources, _ := testSources()
		sources.Clients = &clientSourceStub{err: errors.New("db offline")}
		index := NewIndex(sources, time.Hour, nil)
		defer index.Close()
		index.Rebuild(context.Background())

		if hits := index.Query("deposition", 0); len(hits) != 1 {
			t.Fatalf("expected event documents despite the client failure, got %+v", hits)
		}
		if hits := index.Query("acme holdings", 0); len(hits) != 0 {
			t.Fatalf("expected no client documents, got %+v", hits)
		}
	})
}

func TestIndex_NotifyChanged(t *testing.T) {
	sources, calendarStub := testSources()
	index := NewIndex(sources, 10*time.Millisecond, nil)
	defer index.Close()

	before := calendarStub.reads.Load()
	index.NotifyChanged()
	index.NotifyChanged()
	index.NotifyChanged()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if calendarStub.reads.Load() > before {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if got := calendarStub.reads.Load() - before; got != 1 {
		t.Fatalf("expected one debounced rebuild, got %d", got)
	}
}
