package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret-key-for-unit-tests")

	token, err := GenerateAccessToken("user-123", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "centime-api", claims.Issuer)
}

func TestValidateAccessTokenRejectsTampered(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret-key-for-unit-tests")

	token, err := GenerateAccessToken("user-123", "alice@example.com")
	require.NoError(t, err)

	_, err = ValidateAccessToken(token + "x")
	assert.Error(t, err)
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "secret-one")
	token, err := GenerateAccessToken("user-123", "alice@example.com")
	require.NoError(t, err)

	t.Setenv("SECRET_KEY", "secret-two")
	_, err = ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestGenerateAccessTokenRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := GenerateAccessToken("user-123", "alice@example.com")
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	first, err := GenerateRefreshToken()
	require.NoError(t, err)
	second, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, first, 64) // 32 random bytes, hex encoded
	assert.NotEqual(t, first, second)
}
