package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/calendar"
)

type calendarService interface {
	CreateEvent(ctx context.Context, principal application.Principal, input application.EventInput) (application.CalendarEvent, error)
	UpdateEvent(ctx context.Context, principal application.Principal, eventID string, input application.EventInput) (application.CalendarEvent, error)
	DeleteEvent(ctx context.Context, principal application.Principal, eventID string) error
	GetEvent(ctx context.Context, principal application.Principal, eventID string) (application.CalendarEvent, error)
	ListEvents(ctx context.Context, principal application.Principal, query application.CalendarQuery) (application.CalendarProjection, error)
}

type EventHandler struct {
	service   calendarService
	responder responder
}

func NewEventHandler(service calendarService, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, responder: newResponder(logger)}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	event, err := h.service.CreateEvent(r.Context(), principal, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, eventResponse{Event: eventToDTO(event)})
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(eventID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	event, err := h.service.UpdateEvent(r.Context(), principal, eventID, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: eventToDTO(event)})
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(eventID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteEvent(r.Context(), principal, eventID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(eventID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	event, err := h.service.GetEvent(r.Context(), principal, eventID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: eventToDTO(event)})
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	query := application.CalendarQuery{
		Mode:   calendar.ViewMode(strings.TrimSpace(values.Get("mode"))),
		Filter: strings.TrimSpace(values.Get("filter")),
	}
	if dateValue := strings.TrimSpace(values.Get("date")); dateValue != "" {
		date, err := time.Parse("2006-01-02", dateValue)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("date must be formatted as YYYY-MM-DD"))
			return
		}
		query.Date = date
	}

	principal, _ := PrincipalFromContext(r.Context())
	projection, err := h.service.ListEvents(r.Context(), principal, query)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	events := make([]eventDTO, 0, len(projection.Events))
	for _, event := range projection.Events {
		events = append(events, eventToDTO(event))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{
		Mode:       string(projection.Mode),
		RangeStart: projection.RangeStart.Format(time.RFC3339),
		RangeEnd:   projection.RangeEnd.Format(time.RFC3339),
		Events:     events,
	})
}

type eventRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Reminder    *string `json:"reminder"`
}

func (req eventRequest) toInput() (application.EventInput, error) {
	input := application.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        calendar.EventType(strings.TrimSpace(req.Type)),
	}

	if value := strings.TrimSpace(req.Start); value != "" {
		start, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return application.EventInput{}, errors.New("start must be an RFC 3339 timestamp")
		}
		input.Start = start
	}
	if value := strings.TrimSpace(req.End); value != "" {
		end, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return application.EventInput{}, errors.New("end must be an RFC 3339 timestamp")
		}
		input.End = end
	}
	if req.Reminder != nil {
		if value := strings.TrimSpace(*req.Reminder); value != "" {
			reminder, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return application.EventInput{}, errors.New("reminder must be an RFC 3339 timestamp")
			}
			input.Reminder = &reminder
		}
	}
	return input, nil
}

type eventResponse struct {
	Event eventDTO `json:"event"`
}

type listEventsResponse struct {
	Mode       string     `json:"mode"`
	RangeStart string     `json:"range_start"`
	RangeEnd   string     `json:"range_end"`
	Events     []eventDTO `json:"events"`
}

type eventDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Reminder    *string `json:"reminder,omitempty"`
	Color       string  `json:"color"`
}

func eventToDTO(event application.CalendarEvent) eventDTO {
	dto := eventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Type:        string(event.Type),
		Start:       event.Start.Format(time.RFC3339),
		End:         event.End.Format(time.RFC3339),
		Color:       event.Color,
	}
	if event.Reminder != nil {
		reminder := event.Reminder.Format(time.RFC3339)
		dto.Reminder = &reminder
	}
	return dto
}
