package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
)

type caseService interface {
	CreateCase(ctx context.Context, params application.CreateCaseParams) (application.Case, error)
	UpdateCase(ctx context.Context, params application.UpdateCaseParams) (application.Case, error)
	GetCase(ctx context.Context, principal application.Principal, caseID string) (application.Case, error)
	ListCases(ctx context.Context, params application.ListCasesParams) ([]application.Case, error)
	DeleteCase(ctx context.Context, principal application.Principal, caseID string) error
}

type CaseHandler struct {
	service   caseService
	responder responder
}

func NewCaseHandler(service caseService, logger *slog.Logger) *CaseHandler {
	return &CaseHandler{service: service, responder: newResponder(logger)}
}

func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req caseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	matter, err := h.service.CreateCase(r.Context(), application.CreateCaseParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, caseResponse{Case: caseToDTO(matter)})
}

func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	caseID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(caseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req caseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	matter, err := h.service.UpdateCase(r.Context(), application.UpdateCaseParams{
		Principal: principal,
		CaseID:    caseID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, caseResponse{Case: caseToDTO(matter)})
}

func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	caseID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(caseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	matter, err := h.service.GetCase(r.Context(), principal, caseID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, caseResponse{Case: caseToDTO(matter)})
}

func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	values := r.URL.Query()
	matters, err := h.service.ListCases(r.Context(), application.ListCasesParams{
		Principal: principal,
		ClientID:  strings.TrimSpace(values.Get("client_id")),
		Status:    application.CaseStatus(strings.TrimSpace(values.Get("status"))),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]caseDTO, 0, len(matters))
	for _, matter := range matters {
		dtos = append(dtos, caseToDTO(matter))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCasesResponse{Cases: dtos})
}

func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	caseID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(caseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteCase(r.Context(), principal, caseID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type caseRequest struct {
	Title        string  `json:"title"`
	CaseNumber   string  `json:"case_number"`
	ClientID     string  `json:"client_id"`
	Status       string  `json:"status"`
	PracticeArea string  `json:"practice_area"`
	Description  *string `json:"description"`
}

func (req caseRequest) toInput() application.CaseInput {
	return application.CaseInput{
		Title:        req.Title,
		CaseNumber:   req.CaseNumber,
		ClientID:     req.ClientID,
		Status:       application.CaseStatus(req.Status),
		PracticeArea: req.PracticeArea,
		Description:  req.Description,
	}
}

type caseResponse struct {
	Case caseDTO `json:"case"`
}

type listCasesResponse struct {
	Cases []caseDTO `json:"cases"`
}

type caseDTO struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CaseNumber   string  `json:"case_number"`
	ClientID     string  `json:"client_id"`
	CreatorID    string  `json:"creator_id"`
	Status       string  `json:"status"`
	PracticeArea string  `json:"practice_area"`
	Description  *string `json:"description,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func caseToDTO(matter application.Case) caseDTO {
	return caseDTO{
		ID:           matter.ID,
		Title:        matter.Title,
		CaseNumber:   matter.CaseNumber,
		ClientID:     matter.ClientID,
		CreatorID:    matter.CreatorID,
		Status:       string(matter.Status),
		PracticeArea: matter.PracticeArea,
		Description:  matter.Description,
		CreatedAt:    matter.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    matter.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
