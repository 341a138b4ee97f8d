package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, key string) *Manager {
	t.Helper()
	m, err := NewManager(Options{SigningKey: []byte(key), Issuer: "shopadmin", Audience: "shopadmin-api", TTL: time.Hour})
	require.NoError(t, err)
	return m
}

func TestIssueAndParse(t *testing.T) {
	m := newTestManager(t, "secret")
	raw, claims, err := m.Issue("owner@example.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", claims.Subject)

	parsed, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "admin", parsed.Role)
	assert.Equal(t, "owner@example.com", parsed.Subject)
}

func TestParseRejectsForeignKey(t *testing.T) {
	raw, _, err := newTestManager(t, "one").Issue("a", "admin")
	require.NoError(t, err)
	_, err = newTestManager(t, "two").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	m := newTestManager(t, "secret")
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, _, err := m.Issue("a", "admin")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseAudienceMismatch(t *testing.T) {
	issuer, err := NewManager(Options{SigningKey: []byte("k"), Issuer: "shopadmin", Audience: "other"})
	require.NoError(t, err)
	raw, _, err := issuer.Issue("a", "admin")
	require.NoError(t, err)

	_, err = newTestManager(t, "k").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(Options{})
	assert.Error(t, err)
	_, err = NewManager(Options{SigningKey: []byte("k"), SigningAlg: "RS256"})
	assert.Error(t, err)

	var nilManager *Manager
	_, _, err = nilManager.Issue("a", "admin")
	assert.Error(t, err)
}
