package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
)

// Kind labels the record type a search hit points at.
type Kind string

const (
	KindEvent  Kind = "event"
	KindClient Kind = "client"
	KindCase   Kind = "case"
)

// Hit is one search result.
type Hit struct {
	Kind    Kind
	ID      string
	Title   string
	Snippet string
}

type document struct {
	kind    Kind
	id      string
	title   string
	snippet string
	text    string
}

// Sources supplies the records the index is built from. Reads run with
// an internal admin principal since search spans all practice data.
type Sources struct {
	Calendar interface {
		AllEvents(ctx context.Context) []application.CalendarEvent
	}
	Clients interface {
		ListClients(ctx context.Context, principal application.Principal) ([]application.Client, error)
	}
	Cases interface {
		ListCases(ctx context.Context, params application.ListCasesParams) ([]application.Case, error)
	}
}

// Index is an in-memory substring index over events, clients, and
// cases. Rebuilds are debounced: data mutations call NotifyChanged and
// the rebuild happens once the mutations go quiet.
type Index struct {
	mu        sync.RWMutex
	docs      []document
	sources   Sources
	debouncer *Debouncer
	logger    *slog.Logger
}

// NewIndex builds an empty index over the sources. rebuildDelay is the
// debounce quiet period for NotifyChanged.
func NewIndex(sources Sources, rebuildDelay time.Duration, logger *slog.Logger) *Index {
	idx := &Index{sources: sources, logger: logger}
	idx.debouncer = NewDebouncer(rebuildDelay, func() {
		idx.Rebuild(context.Background())
	})
	return idx
}

// NotifyChanged records that the underlying data changed. The rebuild
// runs once changes stop arriving for the debounce period.
func (idx *Index) NotifyChanged() {
	idx.debouncer.Trigger()
}

// Close stops the pending rebuild, if any.
func (idx *Index) Close() {
	idx.debouncer.Stop()
}

// Rebuild snapshots all sources into a fresh document list.
func (idx *Index) Rebuild(ctx context.Context) {
	principal := application.Principal{IsAdmin: true}
	docs := make([]document, 0, 64)

	if idx.sources.Calendar != nil {
		for _, event := range idx.sources.Calendar.AllEvents(ctx) {
			docs = append(docs, document{
				kind:    KindEvent,
				id:      event.ID,
				title:   event.Title,
				snippet: event.Start.Format("2006-01-02 15:04") + " " + string(event.Type),
				text:    strings.ToLower(event.Title + " " + event.Description + " " + string(event.Type)),
			})
		}
	}
	if idx.sources.Clients != nil {
		clients, err := idx.sources.Clients.ListClients(ctx, principal)
		if err != nil {
			if idx.logger != nil {
				idx.logger.Error("search index client read failed", slog.String("error", err.Error()))
			}
		} else {
			for _, client := range clients {
				docs = append(docs, document{
					kind:    KindClient,
					id:      client.ID,
					title:   client.Name,
					snippet: client.Email,
					text:    strings.ToLower(client.Name + " " + client.Email + " " + client.Phone),
				})
			}
		}
	}
	if idx.sources.Cases != nil {
		cases, err := idx.sources.Cases.ListCases(ctx, application.ListCasesParams{Principal: principal})
		if err != nil {
			if idx.logger != nil {
				idx.logger.Error("search index case read failed", slog.String("error", err.Error()))
			}
		} else {
			for _, c := range cases {
				text := c.Title + " " + c.CaseNumber + " " + c.PracticeArea
				if c.Description != nil {
					text += " " + *c.Description
				}
				docs = append(docs, document{
					kind:    KindCase,
					id:      c.ID,
					title:   c.Title,
					snippet: c.CaseNumber + " (" + string(c.Status) + ")",
					text:    strings.ToLower(text),
				})
			}
		}
	}

	idx.mu.Lock()
	idx.docs = docs
	idx.mu.Unlock()
}

// Query returns documents containing every term of the query, title
// matches first. An empty query returns nothing.
func (idx *Index) Query(query string, limit int) []Hit {
	terms := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(terms) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 20
	}

	idx.mu.RLock()
	docs := idx.docs
	idx.mu.RUnlock()

	type scored struct {
		hit   Hit
		score int
	}
	matches := make([]scored, 0, limit)
	for _, doc := range docs {
		ok := true
		score := 0
		loweredTitle := strings.ToLower(doc.title)
		for _, term := range terms {
			if !strings.Contains(doc.text, term) {
				ok = false
				break
			}
			if strings.Contains(loweredTitle, term) {
				score++
			}
		}
		if !ok {
			continue
		}
		matches = append(matches, scored{
			hit:   Hit{Kind: doc.kind, ID: doc.id, Title: doc.title, Snippet: doc.snippet},
			score: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].hit.Title < matches[j].hit.Title
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, m.hit)
	}
	return hits
}
