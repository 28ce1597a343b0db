package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/tests/testutil"
)

func TestListInvoices(t *testing.T) {
	env := setupControllerTest(t)

	tests := []struct {
		name           string
		userID         string
		role           models.Role
		query          string
		expectedStatus int
		expectedError  string
		expectedIDs    []string
	}{
		{name: "artisan defaults to themselves", userID: "u2", role: models.RoleArtisan, expectedStatus: http.StatusOK, expectedIDs: []string{"inv2"}},
		{name: "artisan names themselves", userID: "u4", role: models.RoleArtisan, query: "?artisanId=u4", expectedStatus: http.StatusOK, expectedIDs: []string{"inv1"}},
		{name: "artisan asks for someone else", userID: "u2", role: models.RoleArtisan, query: "?artisanId=u5", expectedStatus: http.StatusForbidden, expectedError: "FORBIDDEN"},
		{name: "admin picks an artisan", userID: "u1", role: models.RoleAdmin, query: "?artisanId=u5", expectedStatus: http.StatusOK, expectedIDs: []string{"inv3"}},
		{name: "admin without artisanId", userID: "u1", role: models.RoleAdmin, expectedStatus: http.StatusBadRequest, expectedError: "VALIDATION_ERROR"},
		{name: "artisan without invoices", userID: "u6", role: models.RoleArtisan, expectedStatus: http.StatusOK, expectedIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := env.router(tt.userID, tt.role)
			router.GET("/api/invoices", env.invoices.ListInvoices)

			w, response := serve(router, jsonRequest(http.MethodGet, "/api/invoices"+tt.query, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCodeOf(response))
				return
			}
			assert.Equal(t, tt.expectedIDs, dataIDs(response))
		})
	}
}

func TestListInvoicesIncludesProjectTitle(t *testing.T) {
	env := setupControllerTest(t)
	router := env.router("u2", models.RoleArtisan)
	router.GET("/api/invoices", env.invoices.ListInvoices)

	_, response := serve(router, jsonRequest(http.MethodGet, "/api/invoices", nil))
	invoice := response["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Rénovation Salles de Bain HQ", invoice["project_title"])
	assert.Equal(t, float64(3200), invoice["amount"])
	assert.Equal(t, "En attente", invoice["status"])
}

func TestCreateInvoiceJSON(t *testing.T) {
	env := setupControllerTest(t)

	tests := []struct {
		name           string
		userID         string
		role           models.Role
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "artisan invoices their project",
			userID:         "u2",
			role:           models.RoleArtisan,
			body:           map[string]interface{}{"project_id": "p1", "amount": 450.5, "date": "2024-03-01"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "admin invoices for an artisan",
			userID:         "u1",
			role:           models.RoleAdmin,
			body:           map[string]interface{}{"project_id": "p3", "artisan_id": "u6", "amount": 900},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "artisan invoices as someone else",
			userID:         "u2",
			role:           models.RoleArtisan,
			body:           map[string]interface{}{"project_id": "p1", "artisan_id": "u5", "amount": 100},
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
		{
			name:           "amount must be positive",
			userID:         "u2",
			role:           models.RoleArtisan,
			body:           map[string]interface{}{"project_id": "p1", "amount": 0},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "unknown project",
			userID:         "u2",
			role:           models.RoleArtisan,
			body:           map[string]interface{}{"project_id": "p404", "amount": 100},
			expectedStatus: http.StatusNotFound,
			expectedError:  "PROJECT_NOT_FOUND",
		},
		{
			name:           "invalid date",
			userID:         "u2",
			role:           models.RoleArtisan,
			body:           map[string]interface{}{"project_id": "p1", "amount": 100, "date": "01/03/2024"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_DATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := env.router(tt.userID, tt.role)
			router.POST("/api/invoices", env.invoices.CreateInvoice)

			w, response := serve(router, jsonRequest(http.MethodPost, "/api/invoices", tt.body))
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCodeOf(response))
				return
			}
			data := response["data"].(map[string]interface{})
			assert.Equal(t, "En attente", data["status"])
			assert.Equal(t, "facture.pdf", data["file_name"])
			assert.NotEmpty(t, data["id"])
		})
	}
}

func TestCreateInvoiceMultipart(t *testing.T) {
	env := setupControllerTest(t)
	router := env.router("u5", models.RoleArtisan)
	router.POST("/api/invoices", env.invoices.CreateInvoice)

	fields := map[string]string{"project_id": "p3", "amount": "1250.75", "date": "2024-05-02"}
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/invoices", fields, "file", "Facture-Mai.PDF", []byte("%PDF-1.4 invoice"))

	w, response := serve(router, req)
	require.Equal(t, http.StatusCreated, w.Code)

	data := response["data"].(map[string]interface{})
	id := data["id"].(string)
	assert.Equal(t, "u5", data["artisan_id"])
	assert.Equal(t, 1250.75, data["amount"])
	assert.Equal(t, "Aménagement Open Space", data["project_title"])
	assert.Equal(t, id+".pdf", data["file_name"])
	assert.True(t, env.files.FileExists("invoices/"+id+".pdf"))
}
