package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	env := setupControllerTest(t)
	router := gin.New()
	router.GET("/api/health", env.health.HealthCheck)
	router.GET("/api/database/status", env.health.DatabaseStatus)

	w, response := serve(router, jsonRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Artisan Portal API is running", response["message"])

	w, response = serve(router, jsonRequest(http.MethodGet, "/api/database/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	tables := response["tables"].([]interface{})
	for _, table := range []string{"users", "projects", "project_artisans", "invoices", "alerts", "artisan_documents"} {
		assert.Contains(t, tables, table)
	}
}

func TestDatabaseStatusAfterClose(t *testing.T) {
	env := setupControllerTest(t)
	router := gin.New()
	router.GET("/api/database/status", env.health.DatabaseStatus)

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w, response := serve(router, jsonRequest(http.MethodGet, "/api/database/status", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DATABASE_CONNECTION_ERROR", errorCodeOf(response))
}
