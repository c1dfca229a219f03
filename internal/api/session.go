package api

import (
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is an in-memory TokenSource holding the bearer token of the
// signed-in user. Expiry is checked on every read with an unverified
// client-side decode; signature verification is the server's concern, the
// client only wants to stop sending tokens it knows are dead.
type Session struct {
	mu     sync.RWMutex
	token  string
	logger *log.Logger
}

// NewSession creates an empty session. A nil logger falls back to the
// process default.
func NewSession(logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{logger: logger}
}

// SetToken stores a freshly issued token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear drops the stored token, signing the user out locally.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// CurrentToken implements TokenSource. It reports absent for an empty or
// expired token.
func (s *Session) CurrentToken() (string, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return "", false
	}
	if expired(token) {
		s.logger.Printf("WARN: stored session token has expired")
		return "", false
	}
	return token, true
}

// expired decodes the token without verifying its signature and checks the
// exp claim. A token that cannot be decoded is treated as expired.
func expired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		// No exp claim: let the server decide.
		return false
	}
	return exp.Before(time.Now())
}
