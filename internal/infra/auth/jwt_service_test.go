package auth

import (
	"testing"
	"time"

	"emart/config"
	"emart/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{Auth: &config.AuthConfig{AccessTokenTTL: ttl}}
	cfg.SecretKey.Access = secret

	return cfg
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test_access_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken("1700000000000", []string{string(entity.RoleCustomer)})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", claims.Subject)
	assert.Equal(t, []string{"customer"}, claims.Roles)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, time.Hour, svc.GetAccessTokenDuration())
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test_access_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)

	claims, err := svc.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService(newTestJWTConfig("secret-one", time.Hour))
	require.NoError(t, err)
	verifier, err := NewJWTService(newTestJWTConfig("secret-two", time.Hour))
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken("owner", []string{"owner"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestJWTService_Expired(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("secret", -time.Minute))
	require.NoError(t, err)
	// A negative TTL falls back to the default.
	assert.Equal(t, 24*time.Hour, svc.GetAccessTokenDuration())

	expired := &jwtService{accessSecret: "secret", accessTTL: -time.Minute}
	token, err := expired.GenerateAccessToken("u1", nil)
	require.NoError(t, err)

	_, err = expired.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_EmptySecret(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("", time.Hour))
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "jwt secret must be provided")
}
