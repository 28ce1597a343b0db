package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/services"
)

// NotConcernedRequest represents the request body for toggling "not concerned"
type NotConcernedRequest struct {
	ArtisanID      string `json:"artisan_id" binding:"required"`
	DocumentType   string `json:"document_type" binding:"required"`
	IsNotConcerned bool   `json:"is_not_concerned"`
}

// DocumentController serves /api/documents
type DocumentController struct {
	compliance *services.ComplianceService
}

func NewDocumentController(compliance *services.ComplianceService) *DocumentController {
	return &DocumentController{compliance: compliance}
}

// ListDocuments handles GET /api/documents/artisans/:artisanId - one entry per required document
func (dc *DocumentController) ListDocuments(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	artisanID := c.Param("artisanId")
	if !canActForArtisan(userID, role, artisanID) {
		respondForbidden(c)
		return
	}

	documents, err := dc.compliance.Evaluate(c.Request.Context(), artisanID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, documents)
}

// GetComplianceStatus handles GET /api/documents/artisans/:artisanId/status
func (dc *DocumentController) GetComplianceStatus(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	artisanID := c.Param("artisanId")
	if !canActForArtisan(userID, role, artisanID) {
		respondForbidden(c)
		return
	}

	status, err := dc.compliance.AggregateStatus(c.Request.Context(), artisanID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"artisan_id":      artisanID,
		"status":          status,
		"catalog_version": services.CatalogVersion,
	})
}

// UploadDocument handles POST /api/documents - multipart form with artisan_id,
// document_type, optional custom_expiry_date and the file. Returns 201 when the
// document is new and 200 when it replaces a previous upload.
func (dc *DocumentController) UploadDocument(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	input := services.UploadInput{
		ArtisanID:    c.PostForm("artisan_id"),
		DocumentType: c.PostForm("document_type"),
		CustomExpiry: c.PostForm("custom_expiry_date"),
	}
	if input.ArtisanID != "" && !canActForArtisan(userID, role, input.ArtisanID) {
		respondForbidden(c)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err == nil {
		input.File = fileHeader
	}

	doc, created, err := dc.compliance.RecordUpload(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondSuccess(c, status, doc)
}

// SetNotConcerned handles POST /api/documents/not-concerned
func (dc *DocumentController) SetNotConcerned(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	var req NotConcernedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !canActForArtisan(userID, role, req.ArtisanID) {
		respondForbidden(c)
		return
	}

	doc, err := dc.compliance.SetNotConcerned(c.Request.Context(), services.NotConcernedInput{
		ArtisanID:      req.ArtisanID,
		DocumentType:   req.DocumentType,
		IsNotConcerned: req.IsNotConcerned,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/documents/:id
func (dc *DocumentController) DeleteDocument(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	doc, err := dc.compliance.GetDocument(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !canActForArtisan(userID, role, doc.ArtisanID) {
		respondForbidden(c)
		return
	}

	if err := dc.compliance.DeleteDocument(ctx, id); err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// DownloadDocument handles GET /api/documents/files/:filename
func (dc *DocumentController) DownloadDocument(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	filename := c.Param("filename")
	content, doc, err := dc.compliance.OpenDocumentFile(c.Request.Context(), filename)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !canActForArtisan(userID, role, doc.ArtisanID) {
		content.Close()
		respondForbidden(c)
		return
	}

	sendFile(c, content, filename)
}

// DownloadTemplate handles GET /api/documents/templates/:type
func (dc *DocumentController) DownloadTemplate(c *gin.Context) {
	content, docType, err := dc.compliance.OpenTemplate(c.Request.Context(), c.Param("type"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendFile(c, content, docType.TemplateFile)
}
