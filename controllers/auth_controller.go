package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/services"
)

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest represents the request body of the forgot-password check
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest represents the request body for resetting a password
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// AuthController serves /api/auth
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}

// ForgotPassword handles POST /api/auth/forgot - tells whether an account uses the email
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	exists, err := ac.auth.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"exists": exists})
}

// ResetPassword handles POST /api/auth/reset-password
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	changed, err := ac.auth.ResetPassword(c.Request.Context(), req.Email, req.NewPassword)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"updated": changed})
}
