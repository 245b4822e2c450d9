package sqlite

import (
	"context"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository on SQLite.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository binds a session repository to the shared pool.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, user_id, token, expires_at, created_at, updated_at, revoked_at"

func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	err := retry(ctx, func() error {
		_, err := r.db.db.ExecContext(ctx,
			`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			session.ID, session.UserID, session.Token,
			formatTime(session.ExpiresAt), formatTime(session.CreatedAt), formatTime(session.UpdatedAt),
			nullTime(session.RevokedAt),
		)
		return mapError(err)
	})
	if err != nil {
		return persistence.Session{}, err
	}
	return r.GetSession(ctx, session.Token)
}

func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE token = ?`, token)

	var (
		session                        persistence.Session
		expiresAt, createdAt, updated  string
		revokedAt                      = nullTime(nil)
	)
	err := row.Scan(&session.ID, &session.UserID, &session.Token, &expiresAt, &createdAt, &updated, &revokedAt)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return persistence.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.Session{}, err
	}
	if session.RevokedAt, err = timePtr(revokedAt); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) UpdateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	err := retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx,
			`UPDATE sessions SET token = ?, expires_at = ?, updated_at = ?, revoked_at = ? WHERE id = ?`,
			session.Token, formatTime(session.ExpiresAt), formatTime(session.UpdatedAt),
			nullTime(session.RevokedAt), session.ID,
		)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
	if err != nil {
		return persistence.Session{}, err
	}
	return r.GetSession(ctx, session.Token)
}

func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	err := retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx,
			`UPDATE sessions SET revoked_at = ?, updated_at = ? WHERE token = ? AND revoked_at IS NULL`,
			formatTime(revokedAt), formatTime(revokedAt), token,
		)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
	if err != nil {
		return persistence.Session{}, err
	}
	return r.GetSession(ctx, token)
}

func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return retry(ctx, func() error {
		_, err := r.db.db.ExecContext(ctx,
			`DELETE FROM sessions WHERE expires_at < ? OR revoked_at IS NOT NULL`,
			formatTime(reference),
		)
		return mapError(err)
	})
}
