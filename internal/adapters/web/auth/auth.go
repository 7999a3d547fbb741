// Package auth implements the single-user session auth of the control
// API. Credentials live in the configuration (web_interface.username and
// password_hash); sessions are uuid tokens held in memory with a TTL, so
// a restart logs everyone out.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

const sessionTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired session")
)

// Service validates logins against the configured single user and tracks
// session tokens. When no credentials are configured the API is open and
// Enabled reports false.
type Service struct {
	cfg func() *config.Config
	log zerolog.Logger

	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry

	now func() time.Time
}

func New(cfg func() *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		log:      logging.WithComponent("auth"),
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Enabled reports whether the control API requires a login.
func (s *Service) Enabled() bool {
	return s.cfg().WebInterface.AuthConfigured()
}

// Login checks the credentials and returns a fresh session token.
func (s *Service) Login(_ context.Context, username, password string) (string, error) {
	web := s.cfg().WebInterface
	if !web.AuthConfigured() {
		return "", errors.New("authentication is not configured")
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(web.Username)) == 1
	if !userOK || !verifyPassword(web.PasswordHash, password) {
		s.log.Warn().Str("username", username).Msg("failed login attempt")
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.pruneLocked()
	s.sessions[token] = s.now().Add(sessionTTL)
	s.mu.Unlock()

	s.log.Info().Str("username", username).Msg("login")
	return token, nil
}

// ValidateToken checks whether a session token is current.
func (s *Service) ValidateToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[token]
	if !ok {
		return ErrInvalidToken
	}
	if s.now().After(expiry) {
		delete(s.sessions, token)
		return ErrInvalidToken
	}
	return nil
}

// Logout drops a session. Unknown tokens are ignored.
func (s *Service) Logout(_ context.Context, token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *Service) pruneLocked() {
	now := s.now()
	for token, expiry := range s.sessions {
		if now.After(expiry) {
			delete(s.sessions, token)
		}
	}
}

// verifyPassword accepts either a bcrypt hash ($2a$/$2b$/$2y$ prefix) or
// a hex-encoded SHA-256 digest.
func verifyPassword(stored, password string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	sum := sha256.Sum256([]byte(password))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(stored))) == 1
}

// HashPassword produces the stored form for a new password. The setup
// wizard writes this into the configuration file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
