package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", "wes")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestGenerateAndValidate(t *testing.T) {
	m, err := NewManager("s3cret", "wes")
	require.NoError(t, err)

	token, err := m.GenerateToken("u1", "Alice", "alice@example.com", time.Minute)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestValidateExpired(t *testing.T) {
	m, err := NewManager("s3cret", "")
	require.NoError(t, err)

	token, err := m.GenerateToken("u1", "Alice", "", -time.Minute)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	issuer, err := NewManager("other", "wes")
	require.NoError(t, err)
	token, err := issuer.GenerateToken("u1", "Alice", "", time.Minute)
	require.NoError(t, err)

	m, err := NewManager("s3cret", "wes")
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := NewManager("s3cret", "someone-else")
	require.NoError(t, err)
	token, err = wrongIssuer.GenerateToken("u1", "Alice", "", time.Minute)
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
