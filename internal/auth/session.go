package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidCredentials is returned when the supplied username or password
// does not match the configured admin credentials.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the capability handed to a logged-in admin. It replaces the
// old ambient logged-in flag: every admin request must present the token,
// and the aggregation core never sees it.
type Session struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager issues and validates admin sessions against a single configured
// credential pair. Sessions live in memory; restarting the service logs
// everyone out.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]Session

	username string
	password string
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewManager creates a session manager.
func NewManager(username, password string, ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]Session),
		username: username,
		password: password,
		ttl:      ttl,
		logger:   logger.With().Str("component", "auth").Logger(),
		now:      time.Now,
	}
}

// Login checks the credentials and issues a new session token.
func (m *Manager) Login(username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(m.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1
	if !userOK || !passOK {
		m.logger.Warn().Msg("Rejected admin login attempt")
		return nil, ErrInvalidCredentials
	}

	now := m.now()
	session := Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.pruneLocked(now)
	m.sessions[session.Token] = session
	m.mu.Unlock()

	m.logger.Info().
		Time("expires_at", session.ExpiresAt).
		Msg("Admin session created")

	return &session, nil
}

// Validate reports whether the token belongs to a live session.
func (m *Manager) Validate(token string) bool {
	if token == "" {
		return false
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return false
	}
	if now.After(session.ExpiresAt) {
		delete(m.sessions, token)
		return false
	}
	return true
}

// Revoke invalidates a session token. Revoking an unknown token is a no-op.
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; ok {
		delete(m.sessions, token)
		m.logger.Info().Msg("Admin session revoked")
	}
}

// pruneLocked drops expired sessions. Caller holds the lock.
func (m *Manager) pruneLocked(now time.Time) {
	for token, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
}
