package application

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

// ClientService manages the practice's client records.
type ClientService struct {
	clients     persistence.ClientRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

func NewClientService(clients persistence.ClientRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ClientService {
	if now == nil {
		now = time.Now
	}
	return &ClientService{clients: clients, idGenerator: idGenerator, now: now, logger: logger}
}

// CreateClient registers a new client record.
func (s *ClientService) CreateClient(ctx context.Context, params CreateClientParams) (Client, error) {
	logger := serviceLogger(ctx, s.logger, "client_service", "create_client")

	if err := validateClientInput(params.Input); err != nil {
		return Client{}, err
	}

	now := s.now()
	record := persistence.Client{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(params.Input.Name),
		Email:     strings.ToLower(strings.TrimSpace(params.Input.Email)),
		Phone:     strings.TrimSpace(params.Input.Phone),
		Address:   params.Input.Address,
		Notes:     params.Input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.CreateClient(ctx, record); err != nil {
		mapped := mapClientRepoError(err)
		logger.Error("client creation failed", slog.String("error_kind", ErrorKind(mapped)))
		return Client{}, mapped
	}

	logger.Info("client created", slog.String("client_id", record.ID))
	return clientFromRecord(record), nil
}

// UpdateClient replaces the mutable attributes of a client record.
func (s *ClientService) UpdateClient(ctx context.Context, params UpdateClientParams) (Client, error) {
	logger := serviceLogger(ctx, s.logger, "client_service", "update_client", slog.String("client_id", params.ClientID))

	if err := validateClientInput(params.Input); err != nil {
		return Client{}, err
	}

	record, err := s.clients.GetClient(ctx, params.ClientID)
	if err != nil {
		return Client{}, mapClientRepoError(err)
	}

	record.Name = strings.TrimSpace(params.Input.Name)
	record.Email = strings.ToLower(strings.TrimSpace(params.Input.Email))
	record.Phone = strings.TrimSpace(params.Input.Phone)
	record.Address = params.Input.Address
	record.Notes = params.Input.Notes
	record.UpdatedAt = s.now()

	if err := s.clients.UpdateClient(ctx, record); err != nil {
		mapped := mapClientRepoError(err)
		logger.Error("client update failed", slog.String("error_kind", ErrorKind(mapped)))
		return Client{}, mapped
	}

	logger.Info("client updated")
	return clientFromRecord(record), nil
}

// GetClient returns a single client record.
func (s *ClientService) GetClient(ctx context.Context, principal Principal, clientID string) (Client, error) {
	record, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return Client{}, mapClientRepoError(err)
	}
	return clientFromRecord(record), nil
}

// ListClients returns every client record sorted by the repository order.
func (s *ClientService) ListClients(ctx context.Context, principal Principal) ([]Client, error) {
	records, err := s.clients.ListClients(ctx)
	if err != nil {
		return nil, mapClientRepoError(err)
	}
	clients := make([]Client, 0, len(records))
	for _, record := range records {
		clients = append(clients, clientFromRecord(record))
	}
	return clients, nil
}

// DeleteClient removes a client record. Clients with open cases are
// protected by the foreign key constraint and come back as a validation
// failure rather than a bare database error.
func (s *ClientService) DeleteClient(ctx context.Context, principal Principal, clientID string) error {
	logger := serviceLogger(ctx, s.logger, "client_service", "delete_client", slog.String("client_id", clientID))

	if err := s.clients.DeleteClient(ctx, clientID); err != nil {
		if errors.Is(err, persistence.ErrForeignKeyViolation) {
			verr := &ValidationError{}
			verr.add("client_id", "client still has cases and cannot be deleted")
			return verr
		}
		mapped := mapClientRepoError(err)
		logger.Error("client deletion failed", slog.String("error_kind", ErrorKind(mapped)))
		return mapped
	}

	logger.Info("client deleted")
	return nil
}

func validateClientInput(input ClientInput) error {
	verr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		verr.add("name", "name is required")
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			verr.add("email", "email must be a valid address")
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func mapClientRepoError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	default:
		return err
	}
}

func clientFromRecord(record persistence.Client) Client {
	return Client{
		ID:        record.ID,
		Name:      record.Name,
		Email:     record.Email,
		Phone:     record.Phone,
		Address:   record.Address,
		Notes:     record.Notes,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
