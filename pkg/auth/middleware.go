package auth

import (
	"errors"
	"net/http"

	"github.com/ukaji3/ptrboard-go/pkg/accounts"
)

// ErrUnauthenticated is reported when a protected path is requested without credentials.
var ErrUnauthenticated = errors.New("authentication required")

// ErrForbidden is reported when the identity lacks a required capability.
var ErrForbidden = errors.New("permission denied")

// ErrorHandler writes an authentication or authorization failure.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, status int, err error)

// Middleware authenticates requests and stores the Identity on the context.
type Middleware struct {
	authn    Authenticator
	excluded map[string]bool
	onError  ErrorHandler
}

// MiddlewareOption configures a Middleware.
type MiddlewareOption func(*Middleware)

// WithExcludedPaths exempts exact paths from authentication.
func WithExcludedPaths(paths ...string) MiddlewareOption {
	return func(m *Middleware) {
		for _, p := range paths {
			m.excluded[p] = true
		}
	}
}

// WithErrorHandler replaces the default plain-text error responses.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(m *Middleware) {
		m.onError = h
	}
}

// NewMiddleware creates a middleware over authn.
// Health and metrics endpoints are always excluded.
func NewMiddleware(authn Authenticator, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		authn:    authn,
		excluded: map[string]bool{"/healthz": true, "/readyz": true, "/metrics": true},
		onError:  defaultErrorHandler,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Wrap wraps an http.Handler with authentication.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.excluded[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		id, ok, err := m.authn.AuthenticateRequest(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="ptrboard"`)
			m.onError(w, r, http.StatusUnauthorized, err)
			return
		}
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="ptrboard"`)
			m.onError(w, r, http.StatusUnauthorized, ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	})
}

// Require returns a handler that serves next only when the request identity
// holds capability c.
func (m *Middleware) Require(c accounts.Capability, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id == nil {
			m.onError(w, r, http.StatusUnauthorized, ErrUnauthenticated)
			return
		}
		if !id.Can(c) {
			m.onError(w, r, http.StatusForbidden, ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, status int, err error) {
	http.Error(w, err.Error(), status)
}
