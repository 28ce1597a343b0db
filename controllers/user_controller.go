package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/services"
)

// UserController serves /api/users
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// ListUsers handles GET /api/users (admins only)
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.users.ListUsers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

// ListArtisans handles GET /api/users/artisans (admins only)
func (uc *UserController) ListArtisans(c *gin.Context) {
	users, err := uc.users.ListArtisans(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

// ListClients handles GET /api/users/clients (admins only)
func (uc *UserController) ListClients(c *gin.Context) {
	users, err := uc.users.ListClients(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

// GetCurrentUser handles GET /api/users/me
func (uc *UserController) GetCurrentUser(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := uc.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// CreateUser handles POST /api/users (admins only)
func (uc *UserController) CreateUser(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := uc.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, user)
}

// UpdateUser handles PUT /api/users/:id (admins only). Only supplied fields change.
func (uc *UserController) UpdateUser(c *gin.Context) {
	var req services.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := uc.users.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id (admins only)
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := uc.users.DeleteUser(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// UpdateProfile handles POST /api/users/profile - the caller completes onboarding
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := uc.users.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}
