package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/assistant"
)

type assistantService interface {
	Ask(ctx context.Context, principal application.Principal, question string) (assistant.Answer, error)
}

type AssistantHandler struct {
	service   assistantService
	responder responder
}

func NewAssistantHandler(service assistantService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{service: service, responder: newResponder(logger)}
}

func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	answer, err := h.service.Ask(r.Context(), principal, req.Question)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, askResponse{
		Intent: string(answer.Intent),
		Answer: answer.Text,
	})
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Intent string `json:"intent"`
	Answer string `json:"answer"`
}
