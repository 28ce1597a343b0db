package testutil

import (
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/artisan-portal-api/config"
	"github.com/kendall-kelly/artisan-portal-api/middleware"
	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/services"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer string, role models.Role) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Role: string(role),
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID string, role models.Role) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextRole, role)
	c.Set(middleware.ContextClaims, MockValidatedClaims(userID, "artisan-portal", role))
}

// MockAuth returns a middleware that authenticates every request as userID with role
func MockAuth(userID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, role)
		c.Next()
	}
}

// IssueToken mints a signed access token for user with the settings of cfg
func IssueToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()

	token, err := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL).Issue(user)
	require.NoError(t, err, "Failed to issue token")
	return token
}

// BearerToken is IssueToken formatted for the Authorization header
func BearerToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	return "Bearer " + IssueToken(t, cfg, user)
}
