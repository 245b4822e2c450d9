package http

import (
	"context"
	"log/slog"
	"net/http"

	ical "github.com/arran4/golang-ical"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
)

type eventLister interface {
	AllEvents(ctx context.Context) []application.CalendarEvent
}

// FeedHandler serves the full calendar as an iCalendar document so
// events can be subscribed to from external calendar clients.
type FeedHandler struct {
	events    eventLister
	responder responder
}

func NewFeedHandler(events eventLister, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{events: events, responder: newResponder(logger)}
}

func (h *FeedHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.events == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//legal-manager//calendar//EN")
	cal.SetName("Practice Calendar")

	for _, event := range h.events.AllEvents(r.Context()) {
		entry := cal.AddEvent(event.ID + "@legal-manager")
		entry.SetSummary(event.Title)
		entry.SetStartAt(event.Start)
		entry.SetEndAt(event.End)
		if event.Description != "" {
			entry.SetDescription(event.Description)
		}
		entry.SetProperty(ical.ComponentPropertyCategories, string(event.Type))
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="practice-calendar.ics"`)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		h.responder.loggerFor(r.Context()).ErrorContext(r.Context(), "failed to write calendar feed", "error", err)
	}
}
