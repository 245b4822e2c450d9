package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/search"
)

type searchIndex interface {
	Query(query string, limit int) []search.Hit
}

type SearchHandler struct {
	index     searchIndex
	responder responder
}

func NewSearchHandler(index searchIndex, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{index: index, responder: newResponder(logger)}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.index == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	query := strings.TrimSpace(values.Get("q"))
	limit := 0
	if limitValue := strings.TrimSpace(values.Get("limit")); limitValue != "" {
		parsed, err := strconv.Atoi(limitValue)
		if err == nil && parsed > 0 {
			limit = parsed
		}
	}

	hits := h.index.Query(query, limit)
	dtos := make([]searchHitDTO, 0, len(hits))
	for _, hit := range hits {
		dtos = append(dtos, searchHitDTO{
			Kind:    string(hit.Kind),
			ID:      hit.ID,
			Title:   hit.Title,
			Snippet: hit.Snippet,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, searchResponse{Query: query, Hits: dtos})
}

type searchResponse struct {
	Query string         `json:"query"`
	Hits  []searchHitDTO `json:"hits"`
}

type searchHitDTO struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
}
