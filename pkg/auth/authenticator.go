// Package auth authenticates dashboard API requests with session tokens.
//
// A successful login creates a session in a SessionStore. Requests carry the
// session token as a bearer token; the Middleware resolves it into an
// Identity stored on the request context.
package auth

import (
	"context"
	"net/http"

	"github.com/ukaji3/ptrboard-go/pkg/accounts"
)

// Identity is an authenticated dashboard user.
type Identity struct {
	// Subject is the account username.
	Subject string

	// Role is the account role at login time.
	Role accounts.Role

	// SessionID is the token the identity was resolved from.
	SessionID string
}

// Can reports whether the identity's role grants c.
func (id *Identity) Can(c accounts.Capability) bool {
	return id != nil && accounts.HasCapability(id.Role, c)
}

// Authenticator authenticates HTTP requests.
// Implementations should be safe for concurrent use.
type Authenticator interface {
	// AuthenticateRequest attempts to authenticate the given request.
	//
	// Returns:
	//   - (*Identity, true, nil): Authentication succeeded
	//   - (nil, false, nil): No credentials present
	//   - (nil, false, error): Credentials present but invalid
	AuthenticateRequest(r *http.Request) (*Identity, bool, error)
}

// AuthenticatorFunc is an adapter to allow plain functions to be used as Authenticators.
type AuthenticatorFunc func(r *http.Request) (*Identity, bool, error)

// AuthenticateRequest implements Authenticator.
func (f AuthenticatorFunc) AuthenticateRequest(r *http.Request) (*Identity, bool, error) {
	return f(r)
}

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	identityKey contextKey = iota
)

// IdentityFromContext retrieves the authenticated Identity from the context.
// Returns nil if no identity is present (unauthenticated request).
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// ContextWithIdentity returns a new context with the given Identity attached.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
