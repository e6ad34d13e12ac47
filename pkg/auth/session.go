package auth

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/ptrboard-go/pkg/accounts"
)

var (
	// ErrInvalidToken is returned when a token is present but unknown or expired.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrMalformedAuthHeader is returned when the Authorization header format is wrong.
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
)

// DefaultSessionTTL is how long a session stays valid after login.
const DefaultSessionTTL = 12 * time.Hour

type session struct {
	identity Identity
	expires  time.Time
}

// SessionStore keeps login sessions in memory. Sessions do not survive a
// restart. It implements Authenticator for bearer session tokens.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl.
// A zero ttl uses DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session for account and returns its token.
// Expired sessions are pruned first.
func (s *SessionStore) Create(account *accounts.Account) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.sessions[token] = session{
		identity: Identity{Subject: account.Username, Role: account.Role, SessionID: token},
		expires:  s.now().Add(s.ttl),
	}
	return token
}

func (s *SessionStore) pruneLocked() {
	now := s.now()
	for token, sess := range s.sessions {
		if now.After(sess.expires) {
			delete(s.sessions, token)
		}
	}
}

// Lookup returns the identity of a live session.
func (s *SessionStore) Lookup(token string) (*Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if s.now().After(sess.expires) {
		delete(s.sessions, token)
		return nil, false
	}
	id := sess.identity
	return &id, true
}

// Revoke ends a session. Unknown tokens are ignored.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len returns the number of stored sessions, including expired ones not yet pruned.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// AuthenticateRequest implements Authenticator.
func (s *SessionStore) AuthenticateRequest(r *http.Request) (*Identity, bool, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false, nil
	}

	// Must be "Bearer <token>" format
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return nil, false, ErrMalformedAuthHeader
	}

	id, ok := s.Lookup(token)
	if !ok {
		return nil, false, ErrInvalidToken
	}
	return id, true, nil
}
