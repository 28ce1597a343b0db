package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kendall-kelly/artisan-portal-api/config"
	"github.com/kendall-kelly/artisan-portal-api/controllers"
	"github.com/kendall-kelly/artisan-portal-api/middleware"
	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/realtime"
	"github.com/kendall-kelly/artisan-portal-api/repository"
	"github.com/kendall-kelly/artisan-portal-api/services"
)

// alertQueueSize bounds the alerts waiting to be written
const alertQueueSize = 100

// App is the wired HTTP application
type App struct {
	Router *gin.Engine
	Hub    *realtime.Hub
	Alerts *services.AlertDispatcher
}

// New wires stores, services and controllers onto a gin router.
// files holds uploaded documents and invoices; templates holds the blank templates.
func New(cfg *config.Config, db *gorm.DB, files, templates services.FileStore) *App {
	users := repository.NewUserGormRepository(db)
	projects := repository.NewProjectGormRepository(db)
	documents := repository.NewDocumentGormRepository(db)
	invoices := repository.NewInvoiceGormRepository(db)
	alertStore := repository.NewAlertGormRepository(db)

	hub := realtime.NewHub()
	alertService := services.NewAlertService(alertStore, hub)
	dispatcher := services.NewAlertDispatcher(alertService, alertQueueSize)

	uploads := services.NewUploadService(files)
	compliance := services.NewComplianceService(documents, users, uploads, templates, dispatcher)
	projectService := services.NewProjectService(projects, users, dispatcher)
	userService := services.NewUserService(users, documents, compliance, uploads)
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	authService := services.NewAuthService(users, tokens)
	invoiceService := services.NewInvoiceService(invoices, projects, users, uploads)
	dashboardService := services.NewDashboardService(projectService, compliance, alertService, users)

	router := gin.New()
	if !cfg.IsTest() {
		router.Use(gin.Logger())
	}
	router.Use(middleware.ErrorLogger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	health := controllers.NewHealthController(db)
	authCtl := controllers.NewAuthController(authService)
	projectCtl := controllers.NewProjectController(projectService)
	userCtl := controllers.NewUserController(userService)
	invoiceCtl := controllers.NewInvoiceController(invoiceService)
	alertCtl := controllers.NewAlertController(alertService, hub)
	documentCtl := controllers.NewDocumentController(compliance)
	dashboardCtl := controllers.NewDashboardController(dashboardService)

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	adminOrArtisan := middleware.RequireRole(models.RoleAdmin, models.RoleArtisan)

	api := router.Group("/api")
	{
		api.GET("/health", health.HealthCheck)
		api.GET("/database/status", health.DatabaseStatus)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authCtl.Login)
			auth.POST("/forgot", authCtl.ForgotPassword)
			auth.POST("/reset-password", authCtl.ResetPassword)
		}

		protected := api.Group("")
		protected.Use(middleware.EnsureValidToken(cfg))
		{
			protected.GET("/dashboard", dashboardCtl.GetDashboard)

			projectRoutes := protected.Group("/projects")
			{
				projectRoutes.GET("", projectCtl.ListProjects)
				projectRoutes.GET("/:id", projectCtl.GetProject)
				projectRoutes.POST("", adminOnly, projectCtl.CreateProject)
				projectRoutes.PUT("/:id", adminOnly, projectCtl.UpdateProject)
				projectRoutes.DELETE("/:id", adminOnly, projectCtl.DeleteProject)
			}

			userRoutes := protected.Group("/users")
			{
				userRoutes.GET("", adminOnly, userCtl.ListUsers)
				userRoutes.GET("/artisans", adminOnly, userCtl.ListArtisans)
				userRoutes.GET("/clients", adminOnly, userCtl.ListClients)
				userRoutes.GET("/me", userCtl.GetCurrentUser)
				userRoutes.POST("", adminOnly, userCtl.CreateUser)
				userRoutes.POST("/profile", userCtl.UpdateProfile)
				userRoutes.PUT("/:id", adminOnly, userCtl.UpdateUser)
				userRoutes.DELETE("/:id", adminOnly, userCtl.DeleteUser)
			}

			invoiceRoutes := protected.Group("/invoices", adminOrArtisan)
			{
				invoiceRoutes.GET("", invoiceCtl.ListInvoices)
				invoiceRoutes.POST("", invoiceCtl.CreateInvoice)
			}

			alertRoutes := protected.Group("/alerts", adminOnly)
			{
				alertRoutes.GET("", alertCtl.ListAlerts)
				alertRoutes.POST("", alertCtl.CreateAlert)
				alertRoutes.GET("/stream", alertCtl.StreamAlerts)
			}

			documentRoutes := protected.Group("/documents")
			{
				documentRoutes.GET("/templates/:type", documentCtl.DownloadTemplate)
				documentRoutes.GET("/artisans/:artisanId", adminOrArtisan, documentCtl.ListDocuments)
				documentRoutes.GET("/artisans/:artisanId/status", adminOrArtisan, documentCtl.GetComplianceStatus)
				documentRoutes.GET("/files/:filename", adminOrArtisan, documentCtl.DownloadDocument)
				documentRoutes.POST("", adminOrArtisan, documentCtl.UploadDocument)
				documentRoutes.POST("/not-concerned", adminOrArtisan, documentCtl.SetNotConcerned)
				documentRoutes.DELETE("/:id", adminOrArtisan, documentCtl.DeleteDocument)
			}
		}
	}

	return &App{Router: router, Hub: hub, Alerts: dispatcher}
}

// Close flushes queued alerts and disconnects realtime clients
func (a *App) Close() {
	a.Alerts.Close()
	a.Hub.Close()
}
