package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret")
	userID := uuid.New()

	token, err := m.GenerateToken(userID, "ana@example.com", "Ana", "admin", "sess-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestValidateRejects(t *testing.T) {
	m := NewManager("test-secret")

	expired, err := m.GenerateToken(uuid.New(), "a@b.c", "", "user", "s", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = m.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := NewManager("other-secret").GenerateToken(uuid.New(), "a@b.c", "", "user", "s", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = m.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	noSession, err := m.GenerateToken(uuid.New(), "a@b.c", "", "user", "", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = m.ValidateToken(noSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
