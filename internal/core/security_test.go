// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("same input")
	require.NoError(t, err)

	second, err := HashPassword("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("anything", "not-an-argon2-hash")
	assert.Error(t, err)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	ok, _, err := VerifyPasswordTimingSafe("secret", &hash)
	require.NoError(t, err)
	assert.True(t, ok)

	// A missing hash still runs a verification against the dummy so
	// unknown emails cost the same as wrong passwords.
	ok, _, err = VerifyPasswordTimingSafe("secret", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenHashRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	hash := HashToken(token)
	assert.NotEqual(t, token, hash)
	assert.True(t, CompareTokenHash(token, hash))
	assert.False(t, CompareTokenHash("tampered", hash))
}

func TestGenerateSecureTokenLength(t *testing.T) {
	first, err := GenerateSecureToken(32)
	require.NoError(t, err)

	second, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEmpty(t, first)
}
