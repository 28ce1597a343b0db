package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/artisan-portal-api/seed"
)

func (e *controllerEnv) authRouter() *gin.Engine {
	router := gin.New()
	router.POST("/api/auth/login", e.auth.Login)
	router.POST("/api/auth/forgot", e.auth.ForgotPassword)
	router.POST("/api/auth/reset-password", e.auth.ResetPassword)
	return router
}

func TestLogin(t *testing.T) {
	env := setupControllerTest(t)
	router := env.authRouter()

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "valid credentials",
			requestBody:    map[string]interface{}{"email": "john@artisan.com", "password": seed.DemoPassword},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			requestBody:    map[string]interface{}{"email": "john@artisan.com", "password": "nope-nope"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name:           "unknown email",
			requestBody:    map[string]interface{}{"email": "nobody@artisan.com", "password": seed.DemoPassword},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name:           "missing password",
			requestBody:    map[string]interface{}{"email": "john@artisan.com"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := serve(router, jsonRequest(http.MethodPost, "/api/auth/login", tt.requestBody))
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCodeOf(response))
				return
			}
			data := response["data"].(map[string]interface{})
			assert.NotEmpty(t, data["token"])
			user := data["user"].(map[string]interface{})
			assert.Equal(t, "u2", user["id"])
			assert.Equal(t, "ARTISAN", user["role"])
		})
	}
}

func TestForgotPassword(t *testing.T) {
	env := setupControllerTest(t)
	router := env.authRouter()

	w, response := serve(router, jsonRequest(http.MethodPost, "/api/auth/forgot", map[string]interface{}{"email": "marie@couleurs.com"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, response["data"].(map[string]interface{})["exists"])

	w, response = serve(router, jsonRequest(http.MethodPost, "/api/auth/forgot", map[string]interface{}{"email": "nobody@couleurs.com"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, response["data"].(map[string]interface{})["exists"])

	w, _ = serve(router, jsonRequest(http.MethodPost, "/api/auth/forgot", map[string]interface{}{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPasswordThenLogin(t *testing.T) {
	env := setupControllerTest(t)
	router := env.authRouter()

	w, response := serve(router, jsonRequest(http.MethodPost, "/api/auth/reset-password", map[string]interface{}{"email": "marie@couleurs.com", "newPassword": "peinture31"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, response["data"].(map[string]interface{})["updated"])

	w, _ = serve(router, jsonRequest(http.MethodPost, "/api/auth/login", map[string]interface{}{"email": "marie@couleurs.com", "password": seed.DemoPassword}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = serve(router, jsonRequest(http.MethodPost, "/api/auth/login", map[string]interface{}{"email": "marie@couleurs.com", "password": "peinture31"}))
	assert.Equal(t, http.StatusOK, w.Code)

	w, response = serve(router, jsonRequest(http.MethodPost, "/api/auth/reset-password", map[string]interface{}{"email": "nobody@couleurs.com", "newPassword": "peinture31"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, response["data"].(map[string]interface{})["updated"])

	w, response = serve(router, jsonRequest(http.MethodPost, "/api/auth/reset-password", map[string]interface{}{"email": "marie@couleurs.com", "newPassword": "123"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PASSWORD_TOO_SHORT", errorCodeOf(response))
}
