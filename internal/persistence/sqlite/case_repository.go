package sqlite

import (
	"context"
	"strings"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

// CaseRepository implements persistence.CaseRepository on SQLite.
type CaseRepository struct {
	db *DB
}

// NewCaseRepository binds a case repository to the shared pool.
func NewCaseRepository(db *DB) *CaseRepository {
	return &CaseRepository{db: db}
}

const caseColumns = "id, title, case_number, client_id, creator_id, status, practice_area, description, created_at, updated_at"

func (r *CaseRepository) CreateCase(ctx context.Context, c persistence.Case) error {
	return retry(ctx, func() error {
		_, err := r.db.db.ExecContext(ctx,
			`INSERT INTO cases (`+caseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Title, c.CaseNumber, c.ClientID, c.CreatorID, c.Status, c.PracticeArea,
			nullString(c.Description), formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		)
		return mapError(err)
	})
}

func (r *CaseRepository) UpdateCase(ctx context.Context, c persistence.Case) error {
	return retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx,
			`UPDATE cases SET title = ?, case_number = ?, client_id = ?, status = ?, practice_area = ?, description = ?, updated_at = ? WHERE id = ?`,
			c.Title, c.CaseNumber, c.ClientID, c.Status, c.PracticeArea,
			nullString(c.Description), formatTime(c.UpdatedAt), c.ID,
		)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

func (r *CaseRepository) GetCase(ctx context.Context, id string) (persistence.Case, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = ?`, id)
	return scanCase(row)
}

func (r *CaseRepository) ListCases(ctx context.Context, filter persistence.CaseFilter) ([]persistence.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	var (
		clauses []string
		args    []any
	)
	if filter.ClientID != "" {
		clauses = append(clauses, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var cases []persistence.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, mapError(rows.Err())
}

func (r *CaseRepository) DeleteCase(ctx context.Context, id string) error {
	return retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

func scanCase(row rowScanner) (persistence.Case, error) {
	var (
		c                  persistence.Case
		description        = nullString(nil)
		createdAt, updated string
	)
	err := row.Scan(&c.ID, &c.Title, &c.CaseNumber, &c.ClientID, &c.CreatorID,
		&c.Status, &c.PracticeArea, &description, &createdAt, &updated)
	if err != nil {
		return persistence.Case{}, mapError(err)
	}
	c.Description = stringPtr(description)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Case{}, err
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.Case{}, err
	}
	return c, nil
}
