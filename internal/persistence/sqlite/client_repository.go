package sqlite

import (
	"context"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

// ClientRepository implements persistence.ClientRepository on SQLite.
type ClientRepository struct {
	db *DB
}

// NewClientRepository binds a client repository to the shared pool.
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = "id, name, email, phone, address, notes, created_at, updated_at"

func (r *ClientRepository) CreateClient(ctx context.Context, client persistence.Client) error {
	return retry(ctx, func() error {
		_, err := r.db.db.ExecContext(ctx,
			`INSERT INTO clients (`+clientColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			client.ID, client.Name, client.Email, client.Phone,
			nullString(client.Address), nullString(client.Notes),
			formatTime(client.CreatedAt), formatTime(client.UpdatedAt),
		)
		return mapError(err)
	})
}

func (r *ClientRepository) UpdateClient(ctx context.Context, client persistence.Client) error {
	return retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx,
			`UPDATE clients SET name = ?, email = ?, phone = ?, address = ?, notes = ?, updated_at = ? WHERE id = ?`,
			client.Name, client.Email, client.Phone,
			nullString(client.Address), nullString(client.Notes),
			formatTime(client.UpdatedAt), client.ID,
		)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

func (r *ClientRepository) GetClient(ctx context.Context, id string) (persistence.Client, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

func (r *ClientRepository) ListClients(ctx context.Context) ([]persistence.Client, error) {
	rows, err := r.db.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var clients []persistence.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, mapError(rows.Err())
}

func (r *ClientRepository) DeleteClient(ctx context.Context, id string) error {
	return retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

func scanClient(row rowScanner) (persistence.Client, error) {
	var (
		client             persistence.Client
		address, notes     = nullString(nil), nullString(nil)
		createdAt, updated string
	)
	err := row.Scan(&client.ID, &client.Name, &client.Email, &client.Phone,
		&address, &notes, &createdAt, &updated)
	if err != nil {
		return persistence.Client{}, mapError(err)
	}
	client.Address = stringPtr(address)
	client.Notes = stringPtr(notes)
	if client.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Client{}, err
	}
	if client.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.Client{}, err
	}
	return client, nil
}
