package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/services"
)

// InvoiceController serves /api/invoices
type InvoiceController struct {
	invoices *services.InvoiceService
}

func NewInvoiceController(invoices *services.InvoiceService) *InvoiceController {
	return &InvoiceController{invoices: invoices}
}

// ListInvoices handles GET /api/invoices?artisanId= - artisans only see their own
func (ic *InvoiceController) ListInvoices(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	artisanID := c.Query("artisanId")
	if artisanID == "" && role == models.RoleArtisan {
		artisanID = userID
	}
	if artisanID == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "artisanId is required")
		return
	}
	if !canActForArtisan(userID, role, artisanID) {
		respondForbidden(c)
		return
	}

	invoices, err := ic.invoices.ListForArtisan(c.Request.Context(), artisanID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, invoices)
}

// CreateInvoice handles POST /api/invoices. The body is JSON, or multipart
// form fields with an optional "file" part.
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.InvoiceInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			respondBindError(c, err)
			return
		}
		if fileHeader, err := c.FormFile("file"); err == nil {
			req.File = fileHeader
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if req.ArtisanID == "" && role == models.RoleArtisan {
		req.ArtisanID = userID
	}
	if req.ArtisanID != "" && !canActForArtisan(userID, role, req.ArtisanID) {
		respondForbidden(c)
		return
	}

	invoice, err := ic.invoices.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, invoice)
}
