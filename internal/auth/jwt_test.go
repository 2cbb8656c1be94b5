// jwt_test.go

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraiem/facture-saas/internal/config"
	"github.com/mkraiem/facture-saas/internal/core"
)

func testJWTManager(t *testing.T, accessTTL time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  accessTTL,
		RefreshTokenExpire: 168 * time.Hour,
		Issuer:             "facture-saas",
		Audience:           "facture-saas-api",
	})
	require.NoError(t, err)

	return manager
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := testJWTManager(t, 15*time.Minute)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID:        "user-1",
		Role:          "MANAGER",
		EmailVerified: true,
		TokenVersion:  3,
	})
	require.NoError(t, err)

	claims, err := manager.VerifyAccessToken(context.Background(), signed)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "MANAGER", claims.Role)
	assert.True(t, claims.EmailVerified)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	manager := testJWTManager(t, -1*time.Minute)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "user-1",
		Role:   "USER",
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyAccessTokenWrongKey(t *testing.T) {
	issuing := testJWTManager(t, 15*time.Minute)
	verifying := testJWTManager(t, 15*time.Minute)

	signed, err := issuing.CreateAccessToken(AccessTokenClaims{
		UserID: "user-1",
		Role:   "USER",
	})
	require.NoError(t, err)

	_, err = verifying.VerifyAccessToken(context.Background(), signed)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	manager := testJWTManager(t, 15*time.Minute)

	_, err := manager.VerifyAccessToken(
		context.Background(), "not.a.token",
	)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestCreateRefreshToken(t *testing.T) {
	manager := testJWTManager(t, 15*time.Minute)

	data, err := manager.CreateRefreshToken("user-1", "")
	require.NoError(t, err)

	assert.NotEmpty(t, data.Token)
	assert.NotEmpty(t, data.FamilyID)
	assert.True(t, data.ExpiresAt.After(time.Now()))

	// Rotation keeps the family.
	rotated, err := manager.CreateRefreshToken("user-1", data.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, data.FamilyID, rotated.FamilyID)
	assert.NotEqual(t, data.Token, rotated.Token)

	assert.True(t, manager.VerifyRefreshTokenHash(data.Token, data.Hash))
	assert.False(t, manager.VerifyRefreshTokenHash(rotated.Token, data.Hash))
}
