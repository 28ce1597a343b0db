package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/seed"
)

const testSecret = "unit-test-secret"

func newAuthService(env *testEnv) *AuthService {
	return NewAuthService(env.userStore, NewTokenIssuer(testSecret, "artisan-portal", "artisan-portal-api", time.Hour))
}

func TestTokenIssuerClaims(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "artisan-portal", "artisan-portal-api", time.Hour)
	issuer.now = func() time.Time { return time.Now().Truncate(time.Second) }

	signed, err := issuer.Issue(&models.User{ID: "u2", Name: "Jean le Plombier", Role: models.RoleArtisan})
	require.NoError(t, err)

	claims := &TokenClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)

	assert.Equal(t, "u2", claims.Subject)
	assert.Equal(t, "ARTISAN", claims.Role)
	assert.Equal(t, "Jean le Plombier", claims.Name)
	assert.Equal(t, "artisan-portal", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"artisan-portal-api"}, claims.Audience)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	tests := []struct {
		name          string
		email         string
		password      string
		expectedError string
	}{
		{name: "valid credentials", email: "admin@company.com", password: seed.DemoPassword},
		{name: "surrounding spaces in email", email: " admin@company.com ", password: seed.DemoPassword},
		{name: "wrong password", email: "admin@company.com", password: "wrong", expectedError: "INVALID_CREDENTIALS"},
		{name: "unknown email", email: "nobody@company.com", password: seed.DemoPassword, expectedError: "INVALID_CREDENTIALS"},
		{name: "missing password", email: "admin@company.com", expectedError: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := auth.Login(context.Background(), tt.email, tt.password)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, errorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", result.User.ID)
			assert.NotEmpty(t, result.Token)
		})
	}
}

func TestEmailExists(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	ctx := context.Background()

	exists, err := auth.EmailExists(ctx, "marie@couleurs.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = auth.EmailExists(ctx, "inconnu@couleurs.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = auth.EmailExists(ctx, "")
	assert.True(t, IsValidation(err))
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	ctx := context.Background()

	_, err := auth.ResetPassword(ctx, "marie@couleurs.com", "abc")
	assert.Equal(t, "PASSWORD_TOO_SHORT", errorCode(err))

	changed, err := auth.ResetPassword(ctx, "inconnu@couleurs.com", "nouveau-mdp")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = auth.ResetPassword(ctx, "marie@couleurs.com", "nouveau-mdp")
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = auth.Login(ctx, "marie@couleurs.com", seed.DemoPassword)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(err))
	_, err = auth.Login(ctx, "marie@couleurs.com", "nouveau-mdp")
	assert.NoError(t, err)
}
