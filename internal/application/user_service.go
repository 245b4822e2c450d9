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

// UserService manages staff accounts. Mutations are restricted to
// administrators.
type UserService struct {
	users       persistence.UserRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

func NewUserService(users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, idGenerator: idGenerator, now: now, logger: logger}
}

// CreateUser registers a new staff account with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	logger := serviceLogger(ctx, s.logger, "user_service", "create_user", slog.String("email", params.Input.Email))

	if !params.Principal.IsAdmin {
		return User{}, ErrUnauthorized
	}
	if err := validateUserInput(params.Input, true); err != nil {
		return User{}, err
	}

	hash, err := CreatePasswordHash(params.Input.Password, DefaultArgon2idParams)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	record := persistence.User{
		ID:           s.idGenerator(),
		Email:        strings.ToLower(strings.TrimSpace(params.Input.Email)),
		DisplayName:  strings.TrimSpace(params.Input.DisplayName),
		PasswordHash: hash,
		IsAdmin:      params.Input.IsAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, record); err != nil {
		mapped := mapUserRepoError(err)
		logger.Error("user creation failed", slog.String("error_kind", ErrorKind(mapped)))
		return User{}, mapped
	}

	logger.Info("user created", slog.String("user_id", record.ID))
	return userFromRecord(record), nil
}

// UpdateUser replaces the mutable attributes of an account. A blank
// password keeps the stored hash.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (User, error) {
	logger := serviceLogger(ctx, s.logger, "user_service", "update_user", slog.String("user_id", params.UserID))

	if !params.Principal.IsAdmin && params.Principal.UserID != params.UserID {
		return User{}, ErrUnauthorized
	}
	if err := validateUserInput(params.Input, false); err != nil {
		return User{}, err
	}

	record, err := s.users.GetUser(ctx, params.UserID)
	if err != nil {
		return User{}, mapUserRepoError(err)
	}

	record.Email = strings.ToLower(strings.TrimSpace(params.Input.Email))
	record.DisplayName = strings.TrimSpace(params.Input.DisplayName)
	if params.Principal.IsAdmin {
		record.IsAdmin = params.Input.IsAdmin
	}
	if params.Input.Password != "" {
		hash, err := CreatePasswordHash(params.Input.Password, DefaultArgon2idParams)
		if err != nil {
			return User{}, err
		}
		record.PasswordHash = hash
	}
	record.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, record); err != nil {
		mapped := mapUserRepoError(err)
		logger.Error("user update failed", slog.String("error_kind", ErrorKind(mapped)))
		return User{}, mapped
	}

	logger.Info("user updated")
	return userFromRecord(record), nil
}

// GetUser returns a single account.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	record, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, mapUserRepoError(err)
	}
	return userFromRecord(record), nil
}

// ListUsers returns every staff account.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	records, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, mapUserRepoError(err)
	}
	users := make([]User, 0, len(records))
	for _, record := range records {
		users = append(users, userFromRecord(record))
	}
	return users, nil
}

// DeleteUser removes an account. Administrators cannot delete themselves
// so the practice always retains at least one usable admin login.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	logger := serviceLogger(ctx, s.logger, "user_service", "delete_user", slog.String("user_id", userID))

	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if principal.UserID == userID {
		verr := &ValidationError{}
		verr.add("user_id", "administrators cannot delete their own account")
		return verr
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		mapped := mapUserRepoError(err)
		logger.Error("user deletion failed", slog.String("error_kind", ErrorKind(mapped)))
		return mapped
	}

	logger.Info("user deleted")
	return nil
}

func validateUserInput(input UserInput, passwordRequired bool) error {
	verr := &ValidationError{}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		verr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		verr.add("email", "email must be a valid address")
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		verr.add("display_name", "display name is required")
	}
	if passwordRequired && input.Password == "" {
		verr.add("password", "password is required")
	}
	if input.Password != "" && len(input.Password) < 8 {
		verr.add("password", "password must be at least 8 characters")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func mapUserRepoError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	default:
		return err
	}
}

func userFromRecord(record persistence.User) User {
	return User{
		ID:          record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		IsAdmin:     record.IsAdmin,
		Disabled:    record.Disabled,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
