package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/utils"
)

// InvoiceView is an invoice with the title of its project
type InvoiceView struct {
	models.Invoice
	ProjectTitle string `json:"project_title"`
}

// InvoiceInput describes a new invoice
type InvoiceInput struct {
	ProjectID string  `json:"project_id" form:"project_id" validate:"required"`
	ArtisanID string  `json:"artisan_id" form:"artisan_id" validate:"required"`
	Amount    float64 `json:"amount" form:"amount" validate:"gt=0"`
	// Date defaults to today (YYYY-MM-DD)
	Date     string                `json:"date" form:"date"`
	FileName string                `json:"file_name" form:"file_name"`
	File     *multipart.FileHeader `json:"-" form:"-"`
}

// InvoiceService records artisan invoices
type InvoiceService struct {
	invoices InvoiceStore
	projects ProjectStore
	users    UserStore
	uploads  *UploadService
	now      func() time.Time
}

// NewInvoiceService creates the service
func NewInvoiceService(invoices InvoiceStore, projects ProjectStore, users UserStore, uploads *UploadService) *InvoiceService {
	return &InvoiceService{invoices: invoices, projects: projects, users: users, uploads: uploads, now: time.Now}
}

// ListForArtisan returns an artisan's invoices, newest first
func (s *InvoiceService) ListForArtisan(ctx context.Context, artisanID string) ([]InvoiceView, error) {
	if artisanID == "" {
		return nil, validationErr("artisanId is required")
	}
	invoices, err := s.invoices.ListForArtisan(ctx, artisanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	views := make([]InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, InvoiceView{Invoice: inv, ProjectTitle: inv.Project.Title})
	}
	return views, nil
}

// CreateInvoice stores a pending invoice and its optional file
func (s *InvoiceService) CreateInvoice(ctx context.Context, input InvoiceInput) (*InvoiceView, error) {
	input.ProjectID = strings.TrimSpace(input.ProjectID)
	input.ArtisanID = strings.TrimSpace(input.ArtisanID)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	date, err := models.ParseDate(input.Date)
	if err != nil {
		return nil, &ValidationError{Code: "INVALID_DATE", Message: err.Error()}
	}
	if date == nil {
		date = models.NewDate(s.now())
	}

	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, notFound("PROJECT_NOT_FOUND", "Project not found")
	}
	artisan, err := s.users.FindByID(ctx, input.ArtisanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artisan: %w", err)
	}
	if artisan == nil {
		return nil, notFound("ARTISAN_NOT_FOUND", "Artisan not found")
	}

	invoice := &models.Invoice{
		ID:        uuid.NewString(),
		ProjectID: input.ProjectID,
		ArtisanID: input.ArtisanID,
		Amount:    input.Amount,
		Date:      date,
		Status:    models.InvoicePending,
		FileName:  strings.TrimSpace(input.FileName),
	}

	if input.File != nil {
		invoice.FileName = utils.InvoiceFileName(invoice.ID, input.File.Filename)
		if err := s.uploads.Store(ctx, InvoicesDir, invoice.FileName, input.File); err != nil {
			return nil, err
		}
	}
	if invoice.FileName == "" {
		invoice.FileName = models.DefaultInvoiceFileName
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		if input.File != nil {
			s.uploads.Remove(ctx, InvoicesDir, invoice.FileName)
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return &InvoiceView{Invoice: *invoice, ProjectTitle: project.Title}, nil
}
