package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/services"
)

// DashboardController serves /api/dashboard
type DashboardController struct {
	dashboards *services.DashboardService
}

func NewDashboardController(dashboards *services.DashboardService) *DashboardController {
	return &DashboardController{dashboards: dashboards}
}

// GetDashboard handles GET /api/dashboard
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	dashboard, err := dc.dashboards.Build(c.Request.Context(), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dashboard)
}
