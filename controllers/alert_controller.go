package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/realtime"
	"github.com/kendall-kelly/artisan-portal-api/services"
)

// CreateAlertRequest represents the request body for raising an alert manually
type CreateAlertRequest struct {
	Message string           `json:"message" binding:"required"`
	Type    models.AlertType `json:"type"`
}

// AlertController serves /api/alerts
type AlertController struct {
	alerts *services.AlertService
	hub    *realtime.Hub
}

func NewAlertController(alerts *services.AlertService, hub *realtime.Hub) *AlertController {
	return &AlertController{alerts: alerts, hub: hub}
}

// ListAlerts handles GET /api/alerts (admins only), newest first
func (ac *AlertController) ListAlerts(c *gin.Context) {
	alerts, err := ac.alerts.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, alerts)
}

// CreateAlert handles POST /api/alerts (admins only)
func (ac *AlertController) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	alert, err := ac.alerts.Create(c.Request.Context(), req.Message, req.Type)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, alert)
}

// StreamAlerts handles GET /api/alerts/stream (admins only) - upgrades to a
// websocket that receives every new alert as {"type":"alert","payload":{...}}
func (ac *AlertController) StreamAlerts(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	conn, err := realtime.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("alert stream upgrade failed user_id=%s: %v", userID, err)
		return
	}

	log.Printf("alert stream connected user_id=%s", userID)
	ac.hub.ServeWS(conn, userID)
	log.Printf("alert stream disconnected user_id=%s", userID)
}
