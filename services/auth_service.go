package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

// MinPasswordLength is the shortest password accepted on reset
const MinPasswordLength = 6

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// TokenClaims are the claims carried by portal access tokens
type TokenClaims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 access tokens
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates an issuer for the given secret, issuer and audience
func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue mints a token for user
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := TokenClaims{
		Role: string(user.Role),
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// LoginResult is returned by a successful login
type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService checks credentials and resets passwords
type AuthService struct {
	users  UserStore
	tokens *TokenIssuer
}

// NewAuthService creates the service
func NewAuthService(users UserStore, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func invalidCredentials() error {
	return &UnauthorizedError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
}

// Login verifies email and password and issues a token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validationErr("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

// EmailExists reports whether an account uses email
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, validationErr("email is required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to load user: %w", err)
	}
	return user != nil, nil
}

// ResetPassword sets a new password for the account using email.
// It reports whether an account was updated.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return false, validationErr("email and new password are required")
	}
	if len(newPassword) < MinPasswordLength {
		return false, &ValidationError{
			Code:    "PASSWORD_TOO_SHORT",
			Message: fmt.Sprintf("Password must be at least %d characters", MinPasswordLength),
		}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return false, err
	}
	changed, err := s.users.UpdatePasswordByEmail(ctx, email, hash)
	if err != nil {
		return false, fmt.Errorf("failed to reset password: %w", err)
	}
	return changed > 0, nil
}
