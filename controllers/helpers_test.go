package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/realtime"
	"github.com/kendall-kelly/artisan-portal-api/repository"
	"github.com/kendall-kelly/artisan-portal-api/seed"
	"github.com/kendall-kelly/artisan-portal-api/services"
	"github.com/kendall-kelly/artisan-portal-api/tests/testutil"
)

// controllerEnv holds every controller wired on a seeded database
type controllerEnv struct {
	db        *gorm.DB
	hub       *realtime.Hub
	files     *services.MockFileStore
	templates *services.MockFileStore
	auth      *AuthController
	projects  *ProjectController
	users     *UserController
	invoices  *InvoiceController
	alerts    *AlertController
	documents *DocumentController
	dashboard *DashboardController
	health    *HealthController
}

func setupControllerTest(t *testing.T) *controllerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	require.NoError(t, seed.Run(context.Background(), db))

	env := &controllerEnv{
		db:        db,
		files:     services.NewMockFileStore(),
		templates: services.NewMockFileStore(),
	}

	userStore := repository.NewUserGormRepository(db)
	projectStore := repository.NewProjectGormRepository(db)
	documentStore := repository.NewDocumentGormRepository(db)

	hub := realtime.NewHub()
	t.Cleanup(hub.Close)
	env.hub = hub
	alertService := services.NewAlertService(repository.NewAlertGormRepository(db), hub)
	uploads := services.NewUploadService(env.files)

	compliance := services.NewComplianceService(documentStore, userStore, uploads, env.templates, nil)
	projects := services.NewProjectService(projectStore, userStore, nil)
	cfg := testutil.TestConfig()
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, time.Hour)

	env.auth = NewAuthController(services.NewAuthService(userStore, tokens))
	env.projects = NewProjectController(projects)
	env.users = NewUserController(services.NewUserService(userStore, documentStore, compliance, uploads))
	env.invoices = NewInvoiceController(services.NewInvoiceService(repository.NewInvoiceGormRepository(db), projectStore, userStore, uploads))
	env.alerts = NewAlertController(alertService, hub)
	env.documents = NewDocumentController(compliance)
	env.dashboard = NewDashboardController(services.NewDashboardService(projects, compliance, alertService, userStore))
	env.health = NewHealthController(db)
	return env
}

// router returns an engine that authenticates every request as userID with role
func (e *controllerEnv) router(userID string, role models.Role) *gin.Engine {
	router := gin.New()
	router.Use(testutil.MockAuth(userID, role))
	return router
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func errorCodeOf(response map[string]interface{}) string {
	errBody, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errBody["code"].(string)
	return code
}
