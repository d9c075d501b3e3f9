package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        string    `json:"token"`
	UserID    string    `json:"userId"`
	ClientID  string    `json:"clientId"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsAdmin reports whether the session may see every client's data.
func (s *Session) IsAdmin() bool {
	return s.Role == "admin"
}

type Manager struct {
	sessions map[string]*Session
	mu       sync.Mutex
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// CreateSession stores a copy of the template under a fresh token.
func (m *Manager) CreateSession(tmpl Session, duration time.Duration) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := tmpl
	session.ID = generateSessionID()
	session.CreatedAt = m.now()
	session.ExpiresAt = session.CreatedAt.Add(duration)
	m.sessions[session.ID] = &session
	return &session
}

// GetSession returns a live session. Expired sessions are removed on lookup.
func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, false
	}
	if m.now().After(session.ExpiresAt) {
		delete(m.sessions, sessionID)
		return nil, false
	}
	return session, true
}

func (m *Manager) DeleteSession(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	return exists
}

// CleanupExpiredSessions drops expired sessions and returns how many.
func (m *Manager) CleanupExpiredSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	now := m.now()
	for id, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func generateSessionID() string {
	return uuid.NewString()
}
