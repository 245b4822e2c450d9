package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
)

type sessionValidatorStub struct {
	principal application.Principal
	err       error

	tokens []string
}

func (s *sessionValidatorStub) ValidateSession(ctx context.Context, token string) (application.Principal, error) {
	s.tokens = append(s.tokens, token)
	if s.err != nil {
		return application.Principal{}, s.err
	}
	return s.principal, nil
}

func TestRequireSession(t *testing.T) {
	protected := func(validator SessionValidator) (http.Handler, *application.Principal) {
		var seen application.Principal
		handler := RequireSession(validator, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
		return handler, &seen
	}

	t.Run("bearer token resolves the principal", func(t *testing.T) {
		validator := &sessionValidatorStub{principal: application.Principal{UserID: "user-1", IsAdmin: true}}
		handler, seen := protected(validator)

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer tok-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if seen.UserID != "user-1" || !seen.IsAdmin {
			t.Fatalf("unexpected principal in context: %+v", seen)
		}
		if len(validator.tokens) != 1 || validator.tokens[0] != "tok-123" {
			t.Fatalf("expected the bearer token validated, got %v", validator.tokens)
		}
	})

	t.Run("cookie token is accepted", func(t *testing.T) {
		validator := &sessionValidatorStub{principal: application.Principal{UserID: "user-1"}}
		handler, _ := protected(validator)

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-tok"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if validator.tokens[0] != "cookie-tok" {
			t.Fatalf("expected the cookie token validated, got %v", validator.tokens)
		}
	})

	t.Run("missing token is 401", func(t *testing.T) {
		handler, _ := protected(&sessionValidatorStub{})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clients", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired session carries the session error code", func(t *testing.T) {
		handler, _ := protected(&sessionValidatorStub{err: application.ErrSessionExpired})

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var body errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.ErrorCode != "AUTH_SESSION_EXPIRED" {
			t.Fatalf("expected the session expired code, got %q", body.ErrorCode)
		}
	})

	t.Run("unknown token is 401", func(t *testing.T) {
		handler, _ := protected(&sessionValidatorStub{err: application.ErrUnauthorized})

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("disabled account is 403", func(t *testing.T) {
		handler, _ := protected(&sessionValidatorStub{err: application.ErrAccountDisabled})

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("validator failure is 500", func(t *testing.T) {
		handler, _ := protected(&sessionValidatorStub{err: errors.New("db offline")})

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	var sawLogger bool
	handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = LoggerFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected the wrapped status, got %d", rec.Code)
	}
	if !sawLogger {
		t.Fatal("expected a request logger in the context")
	}
}

func TestExtractTokenFromRequest(t *testing.T) {
	t.Run("bearer header wins over the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header-tok")
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-tok"})

		if got := extractTokenFromRequest(req); got != "header-tok" {
			t.Fatalf("expected the header token, got %q", got)
		}
	})

	t.Run("non bearer scheme falls back to the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-tok"})

		if got := extractTokenFromRequest(req); got != "cookie-tok" {
			t.Fatalf("expected the cookie token, got %q", got)
		}
	})

	t.Run("no credentials yields empty", func(t *testing.T) {
		if got := extractTokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
			t.Fatalf("expected an empty token, got %q", got)
		}
	})
}
