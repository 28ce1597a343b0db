package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/kendall-kelly/artisan-portal-api/config"
	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/seed"
	"github.com/kendall-kelly/artisan-portal-api/server"
	"github.com/kendall-kelly/artisan-portal-api/services"
	"github.com/kendall-kelly/artisan-portal-api/tests/testutil"
)

func jsonBody(body interface{}) io.Reader {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(body)
	return &buf
}

// ProjectIntegrationTestSuite checks project visibility across roles through the router
type ProjectIntegrationTestSuite struct {
	suite.Suite
	cfg    *config.Config
	db     *gorm.DB
	app    *server.App
	router *gin.Engine
}

func (suite *ProjectIntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.cfg = testutil.TestConfig()
	suite.db = testutil.NewTestDB(suite.T())
	suite.Require().NoError(seed.Run(suite.T().Context(), suite.db))

	suite.app = server.New(suite.cfg, suite.db, services.NewMockFileStore(), services.NewMockFileStore())
	suite.router = suite.app.Router
}

func (suite *ProjectIntegrationTestSuite) TearDownTest() {
	suite.app.Close()
}

func (suite *ProjectIntegrationTestSuite) request(method, path, userID string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		reader = jsonBody(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	var user models.User
	suite.Require().NoError(suite.db.First(&user, "id = ?", userID).Error)
	req.Header.Set("Authorization", testutil.BearerToken(suite.T(), suite.cfg, &user))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func (suite *ProjectIntegrationTestSuite) visibleProjects(userID string) []string {
	w, response := suite.request(http.MethodGet, "/api/projects", userID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	ids := []string{}
	for _, item := range response["data"].([]interface{}) {
		ids = append(ids, item.(map[string]interface{})["id"].(string))
	}
	return ids
}

// TestSeededVisibility lists what each demo account sees
func (suite *ProjectIntegrationTestSuite) TestSeededVisibility() {
	tests := []struct {
		userID   string
		expected []string
	}{
		{userID: "u1", expected: []string{"p3", "p1", "p2"}},
		{userID: "u2", expected: []string{"p1"}},
		{userID: "u3", expected: []string{"p3", "p1", "p2"}},
		{userID: "u4", expected: []string{"p2"}},
		{userID: "u5", expected: []string{"p3"}},
		{userID: "u6", expected: []string{"p3"}},
	}

	for _, tt := range tests {
		suite.Run(tt.userID, func() {
			assert.Equal(suite.T(), tt.expected, suite.visibleProjects(tt.userID))
		})
	}
}

// TestProjectLifecycle follows a project from creation to deletion
func (suite *ProjectIntegrationTestSuite) TestProjectLifecycle() {
	w, response := suite.request(http.MethodPost, "/api/projects", "u1", map[string]interface{}{
		"title":       "Ravalement Façade",
		"client_id":   "u3",
		"status":      "En attente",
		"start_date":  "2024-04-01",
		"artisan_ids": []string{"u6", "u4"},
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := response["data"].(map[string]interface{})["id"].(string)

	assert.Contains(suite.T(), suite.visibleProjects("u4"), id)
	assert.Contains(suite.T(), suite.visibleProjects("u6"), id)
	assert.NotContains(suite.T(), suite.visibleProjects("u2"), id)
	assert.Contains(suite.T(), suite.visibleProjects("u3"), id)

	w, _ = suite.request(http.MethodGet, "/api/projects/"+id, "u2", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code, "Hidden projects look absent")

	w, response = suite.request(http.MethodPut, "/api/projects/"+id, "u1", map[string]interface{}{
		"title":       "Ravalement Façade",
		"client_id":   "u3",
		"status":      "En cours",
		"artisan_ids": []string{"u2"},
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Nil(suite.T(), data["start_date"])
	assert.Equal(suite.T(), []interface{}{"u2"}, data["artisan_ids"])
	assert.NotContains(suite.T(), suite.visibleProjects("u4"), id)
	assert.Contains(suite.T(), suite.visibleProjects("u2"), id)

	w, _ = suite.request(http.MethodDelete, "/api/projects/"+id, "u2", nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w, _ = suite.request(http.MethodDelete, "/api/projects/"+id, "u1", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.NotContains(suite.T(), suite.visibleProjects("u1"), id)
}

// TestCreatingAProjectRaisesAnAlert waits for the background dispatcher
func (suite *ProjectIntegrationTestSuite) TestCreatingAProjectRaisesAnAlert() {
	w, _ := suite.request(http.MethodPost, "/api/projects", "u1", map[string]interface{}{
		"title":     "Peinture Bureaux",
		"client_id": "u3",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	suite.app.Close()

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Alert{}).Where("message = ?", `Nouveau projet "Peinture Bureaux" créé.`).Count(&count).Error)
	assert.Equal(suite.T(), int64(1), count)
}

func TestProjectIntegrationSuite(t *testing.T) {
	suite.Run(t, new(ProjectIntegrationTestSuite))
}
