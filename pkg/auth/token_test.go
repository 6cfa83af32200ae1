package auth

import (
	"testing"
	"time"

	"github.com/shoplane/shoplane-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "shoplane-test", ExpirationMinutes: 5}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:      7,
		Username:    "alice",
		IsStaff:     true,
		Permissions: []string{"products.change"},
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.True(t, claims.HasPerm("products.change"))
	assert.False(t, claims.HasPerm("products.add"))
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: 1, Username: "bob"})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.Error(t, err)
}

func TestWrongIssuerRejected(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Username: "bob"})
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, token)
	assert.Error(t, err)
}

func TestSuperuserHasEveryPerm(t *testing.T) {
	claims := &AccessTokenClaims{IsSuperuser: true}
	assert.True(t, claims.HasPerm("anything.at.all"))
}

func TestMissingUserIDRejected(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{Username: "noid"})
	assert.Error(t, err)
}
