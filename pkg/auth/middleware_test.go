package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ukaji3/ptrboard-go/pkg/accounts"
)

func staticAuthenticator(id *Identity, err error) Authenticator {
	return AuthenticatorFunc(func(r *http.Request) (*Identity, bool, error) {
		if err != nil {
			return nil, false, err
		}
		return id, id != nil, nil
	})
}

func TestMiddleware_AuthenticatedRequest(t *testing.T) {
	middleware := NewMiddleware(staticAuthenticator(&Identity{Subject: "budi", Role: accounts.RoleUser}, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id == nil {
			t.Error("Expected identity in context")
			return
		}
		if id.Subject != "budi" {
			t.Errorf("Expected subject 'budi', got %q", id.Subject)
		}
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	middleware.Wrap(handler).ServeHTTP(rec, httptest.NewRequest("GET", "/api/files", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		authn Authenticator
	}{
		{"no credentials", staticAuthenticator(nil, nil)},
		{"invalid token", staticAuthenticator(nil, ErrInvalidToken)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("Handler should not be called for unauthenticated request")
			})

			rec := httptest.NewRecorder()
			NewMiddleware(tt.authn).Wrap(handler).ServeHTTP(rec, httptest.NewRequest("GET", "/api/files", nil))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
			if rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("Expected WWW-Authenticate header")
			}
		})
	}
}

func TestMiddleware_ExcludedPaths(t *testing.T) {
	middleware := NewMiddleware(staticAuthenticator(nil, nil), WithExcludedPaths("/api/login"))

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/api/login"} {
		called := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		rec := httptest.NewRecorder()
		middleware.Wrap(handler).ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

		if !called {
			t.Errorf("Expected %s to bypass authentication", path)
		}
	}
}

func TestMiddleware_Require(t *testing.T) {
	var gotStatus int
	var gotErr error
	middleware := NewMiddleware(nil, WithErrorHandler(func(w http.ResponseWriter, r *http.Request, status int, err error) {
		gotStatus, gotErr = status, err
		w.WriteHeader(status)
	}))

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		id      *Identity
		status  int
		wantErr error
	}{
		{"admin reaches users", &Identity{Role: accounts.RoleAdmin}, http.StatusNoContent, nil},
		{"user is forbidden", &Identity{Role: accounts.RoleUser}, http.StatusForbidden, ErrForbidden},
		{"guest is forbidden", &Identity{Role: accounts.RoleGuest}, http.StatusForbidden, ErrForbidden},
		{"anonymous", nil, http.StatusUnauthorized, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStatus, gotErr = 0, nil

			req := httptest.NewRequest("GET", "/api/users", nil)
			if tt.id != nil {
				req = req.WithContext(ContextWithIdentity(req.Context(), tt.id))
			}
			rec := httptest.NewRecorder()
			middleware.Require(accounts.CapabilityAdmin, ok).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
			if tt.wantErr != nil && (gotStatus != tt.status || !errors.Is(gotErr, tt.wantErr)) {
				t.Errorf("Expected error handler with %d/%v, got %d/%v", tt.status, tt.wantErr, gotStatus, gotErr)
			}
		})
	}
}
