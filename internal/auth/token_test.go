package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unessa/fundraiser-api/internal/config"
)

func testService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(config.JWTConfig{
		Secret:   "test-secret-key",
		TokenTTL: time.Hour,
		Issuer:   "fundraiser-api",
	})
	require.NoError(t, err)
	return svc
}

func TestIssueAndVerify(t *testing.T) {
	svc := testService(t)

	token, err := svc.Issue("user-1", "asha@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "fundraiser-api", claims.Issuer)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := testService(t)
	other, err := NewTokenService(config.JWTConfig{Secret: "different-secret"})
	require.NoError(t, err)

	token, err := svc.Issue("user-1", "asha@example.com")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := testService(t)

	_, err := svc.Verify("not.a.token")
	assert.Error(t, err)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(config.JWTConfig{})
	assert.Error(t, err)
}
