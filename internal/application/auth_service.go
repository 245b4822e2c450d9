package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

const DefaultSessionTTL = 12 * time.Hour

// AuthService issues, validates, and revokes session tokens.
type AuthService struct {
	sessions       persistence.SessionRepository
	users          persistence.UserRepository
	idGenerator    func() string
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

func NewAuthService(sessions persistence.SessionRepository, users persistence.UserRepository, idGenerator, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		sessions:       sessions,
		users:          users,
		idGenerator:    idGenerator,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         logger,
	}
}

// Authenticate verifies the credentials and opens a new session.
// Unknown accounts and wrong passwords both come back as
// ErrInvalidCredentials so callers cannot probe for registered emails.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	logger := serviceLogger(ctx, s.logger, "auth_service", "authenticate", slog.String("email", params.Email))
	defer func() {
		if err != nil {
			logger.Warn("authentication failed", slog.String("error_kind", ErrorKind(err)))
			return
		}
		logger.Info("session opened", slog.String("user_id", result.User.ID))
	}()

	record, err := s.users.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, err
	}
	if record.Disabled {
		return AuthenticateResult{}, ErrAccountDisabled
	}
	if err := VerifyPassword(record.PasswordHash, params.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, err
	}

	issuedAt := s.now()
	created, err := s.sessions.CreateSession(ctx, persistence.Session{
		ID:        s.idGenerator(),
		UserID:    record.ID,
		Token:     s.tokenGenerator(),
		ExpiresAt: issuedAt.Add(s.sessionTTL),
		CreatedAt: issuedAt,
		UpdatedAt: issuedAt,
	})
	if err != nil {
		return AuthenticateResult{}, err
	}

	return AuthenticateResult{
		User:    userFromRecord(record),
		Session: sessionFromRecord(created),
	}, nil
}

// ValidateSession resolves a token to the authenticated principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}
	if session.RevokedAt != nil {
		return Principal{}, ErrSessionRevoked
	}
	if !s.now().Before(session.ExpiresAt) {
		return Principal{}, ErrSessionExpired
	}

	record, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}
	if record.Disabled {
		return Principal{}, ErrAccountDisabled
	}

	return Principal{UserID: record.ID, IsAdmin: record.IsAdmin}, nil
}

// RevokeSession marks the token unusable. Revoking an unknown token is
// reported as ErrUnauthorized rather than leaking whether it existed.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	logger := serviceLogger(ctx, s.logger, "auth_service", "revoke_session")
	_, err := s.sessions.RevokeSession(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrUnauthorized
		}
		logger.Error("session revocation failed", slog.String("error_kind", ErrorKind(err)))
		return err
	}
	logger.Info("session revoked")
	return nil
}

// PruneSessions removes sessions that are expired or revoked. It is run
// periodically from the maintenance scheduler.
func (s *AuthService) PruneSessions(ctx context.Context) error {
	logger := serviceLogger(ctx, s.logger, "auth_service", "prune_sessions")
	if err := s.sessions.DeleteExpiredSessions(ctx, s.now()); err != nil {
		logger.Error("session pruning failed", slog.String("error_kind", ErrorKind(err)))
		return err
	}
	logger.Debug("expired sessions pruned")
	return nil
}

func sessionFromRecord(record persistence.Session) Session {
	return Session{
		ID:        record.ID,
		UserID:    record.UserID,
		Token:     record.Token,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		RevokedAt: record.RevokedAt,
	}
}
