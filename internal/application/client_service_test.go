package application

import (
	"context"
	"errors"
	"testing"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/testfixtures"
)

type clientRepoStub struct {
	clients map[string]persistence.Client

	createErr error
	deleteErr error

	created []persistence.Client
	deleted []string
}

func newClientRepoStub(clients ...persistence.Client) *clientRepoStub {
	stub := &clientRepoStub{clients: make(map[string]persistence.Client)}
	for _, client := range clients {
		stub.clients[client.ID] = client
	}
	return stub
}

func (s *clientRepoStub) CreateClient(ctx context.Context, client persistence.Client) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, client)
	s.clients[client.ID] = client
	return nil
}

func (s *clientRepoStub) UpdateClient(ctx context.Context, client persistence.Client) error {
	if _, ok := s.clients[client.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.clients[client.ID] = client
	return nil
}

func (s *clientRepoStub) GetClient(ctx context.Context, id string) (persistence.Client, error) {
	client, ok := s.clients[id]
	if !ok {
		return persistence.Client{}, persistence.ErrNotFound
	}
	return client, nil
}

func (s *clientRepoStub) ListClients(ctx context.Context) ([]persistence.Client, error) {
	out := make([]persistence.Client, 0, len(s.clients))
	for _, client := range s.clients {
		out = append(out, client)
	}
	return out, nil
}

func (s *clientRepoStub) DeleteClient(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.clients[id]; !ok {
		return persistence.ErrNotFound
	}
	s.deleted = append(s.deleted, id)
	delete(s.clients, id)
	return nil
}

func newTestClientService(clients *clientRepoStub) *ClientService {
	return NewClientService(clients, testfixtures.NewIDGenerator("client").Next, testfixtures.NewClock(testfixtures.ReferenceTime()).Now, nil)
}

func TestClientService_CreateClient(t *testing.T) {
	t.Run("creates a trimmed record", func(t *testing.T) {
		repo := newClientRepoStub()
		service := newTestClientService(repo)

		client, err := service.CreateClient(context.Background(), CreateClientParams{
			Principal: staffPrincipal,
			Input: ClientInput{
				Name:  "  Acme Holdings  ",
				Email: " Billing@Acme.Example ",
				Phone: " 555-0100 ",
			},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if client.Name != "Acme Holdings" {
			t.Fatalf("expected a trimmed name, got %q", client.Name)
		}
		if client.Email != "billing@acme.example" {
			t.Fatalf("expected a lowercased email, got %q", client.Email)
		}
		if len(repo.created) != 1 {
			t.Fatalf("expected 1 persisted client, got %d", len(repo.created))
		}
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		service := newTestClientService(newClientRepoStub())

		_, err := service.CreateClient(context.Background(), CreateClientParams{
			Principal: staffPrincipal,
			Input:     ClientInput{Email: "contact@acme.example"},
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
		if _, ok := verr.FieldErrors["name"]; !ok {
			t.Fatalf("expected a name field error, got %v", verr.FieldErrors)
		}
	})

	t.Run("email is optional but must parse", func(t *testing.T) {
		service := newTestClientService(newClientRepoStub())

		if _, err := service.CreateClient(context.Background(), CreateClientParams{
			Principal: staffPrincipal,
			Input:     ClientInput{Name: "Acme"},
		}); err != nil {
			t.Fatalf("expected an empty email to pass, got %v", err)
		}

		_, err := service.CreateClient(context.Background(), CreateClientParams{
			Principal: staffPrincipal,
			Input:     ClientInput{Name: "Acme", Email: "not-an-address"},
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
	})
}

func TestClientService_UpdateClient(t *testing.T) {
	existing := testfixtures.NewClientRecord()

	t.Run("replaces mutable fields", func(t *testing.T) {
		repo := newClientRepoStub(existing)
		service := newTestClientService(repo)

		notes := "prefers email contact"
		client, err := service.UpdateClient(context.Background(), UpdateClientParams{
			Principal: staffPrincipal,
			ClientID:  existing.ID,
			Input:     ClientInput{Name: "Renamed Corp", Notes: &notes},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if client.Name != "Renamed Corp" || client.Notes == nil || *client.Notes != notes {
			t.Fatalf("unexpected record after update: %+v", client)
		}
		if !client.UpdatedAt.Equal(testfixtures.ReferenceTime()) {
			t.Fatalf("expected updated at %v, got %v", testfixtures.ReferenceTime(), client.UpdatedAt)
		}
	})

	t.Run("unknown client maps to not found", func(t *testing.T) {
		service := newTestClientService(newClientRepoStub())

		_, err := service.UpdateClient(context.Background(), UpdateClientParams{
			Principal: staffPrincipal,
			ClientID:  "missing",
			Input:     ClientInput{Name: "Acme"},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestClientService_DeleteClient(t *testing.T) {
	existing := testfixtures.NewClientRecord()

	t.Run("deletes a client", func(t *testing.T) {
		repo := newClientRepoStub(existing)
		service := newTestClientService(repo)

		if err := service.DeleteClient(context.Background(), staffPrincipal, existing.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if len(repo.deleted) != 1 {
			t.Fatalf("expected 1 deletion, got %d", len(repo.deleted))
		}
	})

	t.Run("client with cases is protected", func(t *testing.T) {
		repo := newClientRepoStub(existing)
		repo.deleteErr = persistence.ErrForeignKeyViolation
		service := newTestClientService(repo)

		err := service.DeleteClient(context.Background(), staffPrincipal, existing.ID)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
		if _, ok := verr.FieldErrors["client_id"]; !ok {
			t.Fatalf("expected a client_id field error, got %v", verr.FieldErrors)
		}
	})

	t.Run("unknown client maps to not found", func(t *testing.T) {
		service := newTestClientService(newClientRepoStub())

		if err := service.DeleteClient(context.Background(), staffPrincipal, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
