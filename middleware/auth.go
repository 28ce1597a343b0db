package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/config"
	"github.com/kendall-kelly/artisan-portal-api/models"
)

// Gin context keys set by EnsureValidToken
const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
	ContextClaims = "validated_claims"
)

// CustomClaims contains the portal-specific claims of an access token.
type CustomClaims struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// Validate rejects tokens that do not carry a known role.
func (c CustomClaims) Validate(ctx context.Context) error {
	if !models.Role(c.Role).IsValid() {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	return nil
}

// NewValidator builds the HS256 validator for tokens minted by services.TokenIssuer.
func NewValidator(cfg *config.Config) (*validator.Validator, error) {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}

	return validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
// Tokens are read from the Authorization header, or from the "token" query
// parameter for websocket clients that cannot set headers.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	jwtValidator, err := NewValidator(cfg)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator: %v", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithTokenExtractor(jwtmiddleware.MultiTokenExtractor(
			jwtmiddleware.AuthHeaderTokenExtractor,
			jwtmiddleware.ParameterTokenExtractor("token"),
		)),
	)

	return func(c *gin.Context) {
		validated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			validated = true

			token, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				abortUnauthorized(c, "INVALID_CLAIMS", "Claims are not in the expected format")
				return
			}
			customClaims, ok := token.CustomClaims.(*CustomClaims)
			if !ok {
				abortUnauthorized(c, "INVALID_CLAIMS", "Claims are not in the expected format")
				return
			}

			c.Request = r
			c.Set(ContextUserID, token.RegisteredClaims.Subject)
			c.Set(ContextRole, models.Role(customClaims.Role))
			c.Set(ContextClaims, token)

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// The error handler already wrote the response; stop the chain here
		if !validated {
			c.Abort()
		}
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetRole extracts the caller's role from the Gin context
func GetRole(c *gin.Context) (models.Role, error) {
	role, exists := c.Get(ContextRole)
	if !exists {
		return "", &AuthError{Code: "MISSING_ROLE", Message: "Role not found in context"}
	}

	r, ok := role.(models.Role)
	if !ok {
		return "", &AuthError{Code: "INVALID_ROLE", Message: "Role is not in the expected format"}
	}

	return r, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(ContextClaims)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// RequireRole is a middleware that only lets the given roles through
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetRole(c)
		if err != nil {
			abortUnauthorized(c, "MISSING_CLAIMS", "Could not retrieve token claims")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
