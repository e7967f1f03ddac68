package services

import (
	"sync"

	"golang.org/x/oauth2"

	"github.com/kaset/kaset/internal/shared"
)

// Session is the explicit session context shared by API clients.
//
// It holds the bearer token issued at login and implements
// [oauth2.TokenSource] so callers never read ambient storage. The token is
// replaced with a single Swap on login and cleared on logout or expiry.
type Session struct {
	mu        sync.Mutex
	token     *oauth2.Token
	onExpired func()
}

// NewSession creates a session holding the given token (may be empty) and an
// optional callback invoked whenever the backend rejects the session.
func NewSession(token string, onExpired func()) *Session {
	s := &Session{onExpired: onExpired}
	if token != "" {
		s.token = &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	}
	return s
}

// Token implements [oauth2.TokenSource].
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return s.token, nil
}

// Authenticated reports whether the session currently holds a token.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != nil
}

// Swap replaces the session token. An empty token clears the session.
func (s *Session) Swap(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		s.token = nil
		return
	}
	s.token = &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
}

// Expire clears the token and fires the expiry callback. The gateway calls
// this once per request that the backend rejects with 401.
func (s *Session) Expire() {
	s.mu.Lock()
	s.token = nil
	cb := s.onExpired
	s.mu.Unlock()
	if cb != nil {
		cb()
	}
}
