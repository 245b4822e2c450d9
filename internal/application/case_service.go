package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

// CaseService manages legal matters. Every case belongs to an existing
// client; deletion is restricted to the creator or an administrator.
type CaseService struct {
	cases       persistence.CaseRepository
	clients     persistence.ClientRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

func NewCaseService(cases persistence.CaseRepository, clients persistence.ClientRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CaseService {
	if now == nil {
		now = time.Now
	}
	return &CaseService{cases: cases, clients: clients, idGenerator: idGenerator, now: now, logger: logger}
}

// CreateCase opens a new matter for an existing client.
func (s *CaseService) CreateCase(ctx context.Context, params CreateCaseParams) (Case, error) {
	logger := serviceLogger(ctx, s.logger, "case_service", "create_case", slog.String("client_id", params.Input.ClientID))

	if err := s.validateCaseInput(ctx, params.Input); err != nil {
		return Case{}, err
	}

	now := s.now()
	record := persistence.Case{
		ID:           s.idGenerator(),
		Title:        strings.TrimSpace(params.Input.Title),
		CaseNumber:   strings.TrimSpace(params.Input.CaseNumber),
		ClientID:     params.Input.ClientID,
		CreatorID:    params.Principal.UserID,
		Status:       string(params.Input.Status),
		PracticeArea: strings.TrimSpace(params.Input.PracticeArea),
		Description:  params.Input.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.cases.CreateCase(ctx, record); err != nil {
		mapped := mapCaseRepoError(err)
		logger.Error("case creation failed", slog.String("error_kind", ErrorKind(mapped)))
		return Case{}, mapped
	}

	logger.Info("case created", slog.String("case_id", record.ID))
	return caseFromRecord(record), nil
}

// UpdateCase replaces the mutable attributes of a matter. The creator
// is preserved.
func (s *CaseService) UpdateCase(ctx context.Context, params UpdateCaseParams) (Case, error) {
	logger := serviceLogger(ctx, s.logger, "case_service", "update_case", slog.String("case_id", params.CaseID))

	if err := s.validateCaseInput(ctx, params.Input); err != nil {
		return Case{}, err
	}

	record, err := s.cases.GetCase(ctx, params.CaseID)
	if err != nil {
		return Case{}, mapCaseRepoError(err)
	}

	record.Title = strings.TrimSpace(params.Input.Title)
	record.CaseNumber = strings.TrimSpace(params.Input.CaseNumber)
	record.ClientID = params.Input.ClientID
	record.Status = string(params.Input.Status)
	record.PracticeArea = strings.TrimSpace(params.Input.PracticeArea)
	record.Description = params.Input.Description
	record.UpdatedAt = s.now()

	if err := s.cases.UpdateCase(ctx, record); err != nil {
		mapped := mapCaseRepoError(err)
		logger.Error("case update failed", slog.String("error_kind", ErrorKind(mapped)))
		return Case{}, mapped
	}

	logger.Info("case updated")
	return caseFromRecord(record), nil
}

// GetCase returns a single matter.
func (s *CaseService) GetCase(ctx context.Context, principal Principal, caseID string) (Case, error) {
	record, err := s.cases.GetCase(ctx, caseID)
	if err != nil {
		return Case{}, mapCaseRepoError(err)
	}
	return caseFromRecord(record), nil
}

// ListCases returns matters, optionally narrowed by client or status.
func (s *CaseService) ListCases(ctx context.Context, params ListCasesParams) ([]Case, error) {
	if params.Status != "" && !params.Status.valid() {
		verr := &ValidationError{}
		verr.add("status", "status must be one of open, pending, closed, archived")
		return nil, verr
	}

	records, err := s.cases.ListCases(ctx, persistence.CaseFilter{
		ClientID: params.ClientID,
		Status:   string(params.Status),
	})
	if err != nil {
		return nil, mapCaseRepoError(err)
	}
	cases := make([]Case, 0, len(records))
	for _, record := range records {
		cases = append(cases, caseFromRecord(record))
	}
	return cases, nil
}

// DeleteCase removes a matter. Only the user who opened it or an
// administrator may delete it.
func (s *CaseService) DeleteCase(ctx context.Context, principal Principal, caseID string) error {
	logger := serviceLogger(ctx, s.logger, "case_service", "delete_case", slog.String("case_id", caseID))

	record, err := s.cases.GetCase(ctx, caseID)
	if err != nil {
		return mapCaseRepoError(err)
	}
	if !principal.IsAdmin && record.CreatorID != principal.UserID {
		return ErrUnauthorized
	}

	if err := s.cases.DeleteCase(ctx, caseID); err != nil {
		mapped := mapCaseRepoError(err)
		logger.Error("case deletion failed", slog.String("error_kind", ErrorKind(mapped)))
		return mapped
	}

	logger.Info("case deleted")
	return nil
}

func (s *CaseService) validateCaseInput(ctx context.Context, input CaseInput) error {
	verr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		verr.add("title", "title is required")
	}
	if strings.TrimSpace(input.CaseNumber) == "" {
		verr.add("case_number", "case number is required")
	}
	if !input.Status.valid() {
		verr.add("status", "status must be one of open, pending, closed, archived")
	}
	if input.ClientID == "" {
		verr.add("client_id", "client is required")
	} else if _, err := s.clients.GetClient(ctx, input.ClientID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			verr.add("client_id", "client does not exist")
		} else {
			return err
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func mapCaseRepoError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	default:
		return err
	}
}

func caseFromRecord(record persistence.Case) Case {
	return Case{
		ID:           record.ID,
		Title:        record.Title,
		CaseNumber:   record.CaseNumber,
		ClientID:     record.ClientID,
		CreatorID:    record.CreatorID,
		Status:       CaseStatus(record.Status),
		PracticeArea: record.PracticeArea,
		Description:  record.Description,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}
