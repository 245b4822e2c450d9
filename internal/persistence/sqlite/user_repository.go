package sqlite

import (
	"context"
	"database/sql"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

// UserRepository implements persistence.UserRepository on SQLite.
type UserRepository struct {
	db *DB
}

// NewUserRepository binds a user repository to the shared pool.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, display_name, password_hash, is_admin, disabled, created_at, updated_at"

func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	return retry(ctx, func() error {
		_, err := r.db.db.ExecContext(ctx,
			`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			user.ID, user.Email, user.DisplayName, user.PasswordHash,
			boolToInt(user.IsAdmin), boolToInt(user.Disabled),
			formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
		)
		return mapError(err)
	})
}

func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	return retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx,
			`UPDATE users SET email = ?, display_name = ?, password_hash = ?, is_admin = ?, disabled = ?, updated_at = ? WHERE id = ?`,
			user.Email, user.DisplayName, user.PasswordHash,
			boolToInt(user.IsAdmin), boolToInt(user.Disabled),
			formatTime(user.UpdatedAt), user.ID,
		)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	return scanUser(row)
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.db.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, mapError(rows.Err())
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	return retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (persistence.User, error) {
	var (
		user               persistence.User
		isAdmin, disabled  int
		createdAt, updated string
	)
	err := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash,
		&isAdmin, &disabled, &createdAt, &updated)
	if err != nil {
		return persistence.User{}, mapError(err)
	}
	user.IsAdmin = isAdmin != 0
	user.Disabled = disabled != 0
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
