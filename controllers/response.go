package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/middleware"
	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/services"
	"github.com/kendall-kelly/artisan-portal-api/utils"
)

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// handleServiceError maps service errors onto the error envelope
func handleServiceError(c *gin.Context, err error) {
	var (
		validationErr   *services.ValidationError
		notFoundErr     *services.NotFoundError
		conflictErr     *services.ConflictError
		unauthorizedErr *services.UnauthorizedError
		uploadErr       *utils.FileUploadError
	)

	switch {
	case errors.As(err, &validationErr):
		body := gin.H{"code": validationErr.Code, "message": validationErr.Message}
		if len(validationErr.Fields) > 0 {
			body["details"] = gin.H{"field_errors": validationErr.Fields}
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": body})
	case errors.As(err, &uploadErr):
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
	case errors.As(err, &notFoundErr):
		respondError(c, http.StatusNotFound, notFoundErr.Code, notFoundErr.Message)
	case errors.As(err, &conflictErr):
		respondError(c, http.StatusConflict, conflictErr.Code, conflictErr.Message)
	case errors.As(err, &unauthorizedErr):
		respondError(c, http.StatusUnauthorized, unauthorizedErr.Code, unauthorizedErr.Message)
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// currentUser returns the authenticated caller, writing a 401 when it is missing
func currentUser(c *gin.Context) (string, models.Role, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return "", "", false
	}
	role, err := middleware.GetRole(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return "", "", false
	}
	return userID, role, true
}

// canActForArtisan lets admins act for any artisan and artisans act for themselves
func canActForArtisan(userID string, role models.Role, artisanID string) bool {
	return role == models.RoleAdmin || (role == models.RoleArtisan && userID == artisanID)
}

func respondForbidden(c *gin.Context) {
	respondError(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions to access this resource")
}

// sendFile streams content as a download and closes it
func sendFile(c *gin.Context, content io.ReadCloser, filename string) {
	defer func() {
		if err := content.Close(); err != nil {
			log.Printf("warning: failed to close file: %v", err)
		}
	}()

	c.Header("Cache-Control", "private, max-age=0")
	c.DataFromReader(http.StatusOK, -1, utils.ContentType(filename), content, map[string]string{
		"Content-Disposition": `attachment; filename="` + filename + `"`,
	})
}
