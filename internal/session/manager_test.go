package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := m.CreateSession(Session{UserID: "client-001", ClientID: "client-001", Role: "client"}, time.Hour)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)
	assert.False(t, s.IsAdmin())

	other := m.CreateSession(Session{UserID: "admin-001", Role: "admin"}, 2*time.Hour)
	assert.NotEqual(t, s.ID, other.ID)
	assert.True(t, other.IsAdmin())

	got, ok := m.GetSession(s.ID)
	require.True(t, ok)
	assert.Equal(t, "client-001", got.ClientID)

	now = now.Add(90 * time.Minute)
	_, ok = m.GetSession(s.ID)
	assert.False(t, ok, "expired session is rejected")
	assert.Equal(t, 1, m.Count())

	now = now.Add(time.Hour)
	assert.Equal(t, 1, m.CleanupExpiredSessions())
	assert.Equal(t, 0, m.Count())
}

func TestManager_Delete(t *testing.T) {
	m := NewManager()
	s := m.CreateSession(Session{UserID: "u"}, time.Minute)
	assert.True(t, m.DeleteSession(s.ID))
	assert.False(t, m.DeleteSession(s.ID))
	_, ok := m.GetSession(s.ID)
	assert.False(t, ok)
}
