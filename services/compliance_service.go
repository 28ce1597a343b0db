package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"strings"
	"time"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/utils"
)

// ExpiringSoonDays is the window in which a valid document is flagged as expiring soon
const ExpiringSoonDays = 30

// DocumentView is one catalog entry merged with the artisan's stored row, if any
type DocumentView struct {
	ID              *string               `json:"id"`
	ArtisanID       string                `json:"artisan_id"`
	DocumentType    string                `json:"document_type"`
	Label           string                `json:"label"`
	Downloadable    bool                  `json:"downloadable"`
	ValidityMonths  int                   `json:"expiryMonths"`
	FileName        *string               `json:"file_name"`
	UploadDate      *time.Time            `json:"upload_date"`
	ExpiryDate      *time.Time            `json:"expiry_date"`
	IsNotConcerned  bool                  `json:"is_not_concerned"`
	Status          models.DocumentStatus `json:"status"`
	DaysUntilExpiry *int                  `json:"days_until_expiry"`
	ExpiringSoon    bool                  `json:"expiring_soon"`
}

// UploadInput describes a document upload
type UploadInput struct {
	ArtisanID    string `json:"artisan_id" validate:"required"`
	DocumentType string `json:"document_type" validate:"required"`
	// CustomExpiry overrides the computed expiry date (YYYY-MM-DD)
	CustomExpiry string                `json:"custom_expiry_date"`
	File         *multipart.FileHeader `json:"-"`
}

// NotConcernedInput marks a document type as not applicable to an artisan
type NotConcernedInput struct {
	ArtisanID      string `json:"artisan_id" validate:"required"`
	DocumentType   string `json:"document_type" validate:"required"`
	IsNotConcerned bool   `json:"is_not_concerned"`
}

// ComplianceService evaluates and records artisan compliance documents
type ComplianceService struct {
	documents DocumentStore
	users     UserStore
	uploads   *UploadService
	templates FileStore
	alerts    AlertPublisher
	now       func() time.Time
}

// NewComplianceService creates the evaluator. templates holds the downloadable template files.
func NewComplianceService(documents DocumentStore, users UserStore, uploads *UploadService, templates FileStore, alerts AlertPublisher) *ComplianceService {
	return &ComplianceService{
		documents: documents,
		users:     users,
		uploads:   uploads,
		templates: templates,
		alerts:    alerts,
		now:       time.Now,
	}
}

// SetClock replaces the time source (for testing)
func (s *ComplianceService) SetClock(now func() time.Time) {
	s.now = now
}

// DocumentStatusAt is the read-time status of a stored row. A row marked
// "missing" stays missing even when a file is attached: un-checking
// "not concerned" asks for a fresh upload.
func DocumentStatusAt(doc *models.ArtisanDocument, now time.Time) models.DocumentStatus {
	switch {
	case doc == nil:
		return models.DocumentMissing
	case doc.IsNotConcerned:
		return models.DocumentValid
	case doc.Status == models.DocumentMissing:
		return models.DocumentMissing
	case doc.ExpiredAt(now):
		return models.DocumentExpired
	default:
		return models.DocumentValid
	}
}

// DaysUntil returns floor((expiry - now) / 24h)
func DaysUntil(expiry, now time.Time) int {
	return int(math.Floor(expiry.Sub(now).Hours() / 24))
}

// AggregateVerdict reduces an artisan's rows to a single verdict. Every catalog
// type needs a row; then any expired row that is not marked not concerned
// makes the verdict expired.
func AggregateVerdict(rows []models.ArtisanDocument, now time.Time) models.ComplianceStatus {
	byType := make(map[string]models.ArtisanDocument, len(rows))
	for _, row := range rows {
		byType[row.DocumentType] = row
	}

	matched := 0
	expired := false
	for _, dt := range DocumentCatalog {
		row, ok := byType[dt.Key]
		if !ok {
			continue
		}
		matched++
		if !row.IsNotConcerned && (row.Status == models.DocumentExpired || row.ExpiredAt(now)) {
			expired = true
		}
	}

	switch {
	case matched < len(DocumentCatalog):
		return models.ComplianceMissing
	case expired:
		return models.ComplianceExpired
	default:
		return models.ComplianceCompliant
	}
}

// Evaluate returns one view per catalog entry, in catalog order
func (s *ComplianceService) Evaluate(ctx context.Context, artisanID string) ([]DocumentView, error) {
	if artisanID == "" {
		return nil, validationErr("artisan_id is required")
	}

	rows, err := s.documents.ListForArtisan(ctx, artisanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	byType := make(map[string]*models.ArtisanDocument, len(rows))
	for i := range rows {
		byType[rows[i].DocumentType] = &rows[i]
	}

	now := s.now()
	views := make([]DocumentView, 0, len(DocumentCatalog))
	for _, dt := range DocumentCatalog {
		view := DocumentView{
			ArtisanID:      artisanID,
			DocumentType:   dt.Key,
			Label:          dt.Label,
			Downloadable:   dt.Downloadable,
			ValidityMonths: dt.ValidityMonths,
		}

		row := byType[dt.Key]
		view.Status = DocumentStatusAt(row, now)
		if row != nil {
			id := row.ID
			view.ID = &id
			view.FileName = row.FileName
			view.UploadDate = row.UploadDate
			view.ExpiryDate = row.ExpiryDate
			view.IsNotConcerned = row.IsNotConcerned
			if row.ExpiryDate != nil && !row.IsNotConcerned {
				days := DaysUntil(*row.ExpiryDate, now)
				view.DaysUntilExpiry = &days
				view.ExpiringSoon = days >= 0 && days < ExpiringSoonDays
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// AggregateStatus computes the verdict for one artisan
func (s *ComplianceService) AggregateStatus(ctx context.Context, artisanID string) (models.ComplianceStatus, error) {
	rows, err := s.documents.ListForArtisan(ctx, artisanID)
	if err != nil {
		return "", fmt.Errorf("failed to list documents: %w", err)
	}
	return AggregateVerdict(rows, s.now()), nil
}

// AggregateStatuses computes verdicts for several artisans with a single read
func (s *ComplianceService) AggregateStatuses(ctx context.Context, artisanIDs []string) (map[string]models.ComplianceStatus, error) {
	verdicts := make(map[string]models.ComplianceStatus, len(artisanIDs))
	if len(artisanIDs) == 0 {
		return verdicts, nil
	}

	rows, err := s.documents.ListForArtisans(ctx, artisanIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	byArtisan := make(map[string][]models.ArtisanDocument, len(artisanIDs))
	for _, row := range rows {
		byArtisan[row.ArtisanID] = append(byArtisan[row.ArtisanID], row)
	}

	now := s.now()
	for _, id := range artisanIDs {
		verdicts[id] = AggregateVerdict(byArtisan[id], now)
	}
	return verdicts, nil
}

func (s *ComplianceService) requireArtisan(ctx context.Context, artisanID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, artisanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artisan: %w", err)
	}
	if user == nil {
		return nil, notFound("ARTISAN_NOT_FOUND", "Artisan not found")
	}
	if user.Role != models.RoleArtisan {
		return nil, &ValidationError{Code: "NOT_AN_ARTISAN", Message: "User is not an artisan"}
	}
	return user, nil
}

// expiryFor returns the custom expiry when given, else now plus the validity period
func expiryFor(dt DocumentType, custom string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(custom) == "" {
		return now.AddDate(0, dt.ValidityMonths, 0), nil
	}
	date, err := models.ParseDate(custom)
	if err != nil {
		return time.Time{}, &ValidationError{Code: "INVALID_DATE", Message: err.Error()}
	}
	return time.Time(*date), nil
}

// RecordUpload stores an uploaded document, replacing any previous one for the
// same type. created is true when no row existed before.
func (s *ComplianceService) RecordUpload(ctx context.Context, input UploadInput) (*models.ArtisanDocument, bool, error) {
	if err := validateInput(input); err != nil {
		return nil, false, err
	}
	dt, err := requireDocumentType(input.DocumentType)
	if err != nil {
		return nil, false, err
	}
	if input.File == nil {
		return nil, false, &ValidationError{Code: "MISSING_FILE", Message: "No file uploaded"}
	}
	artisan, err := s.requireArtisan(ctx, input.ArtisanID)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	expiry, err := expiryFor(dt, input.CustomExpiry, now)
	if err != nil {
		return nil, false, err
	}
	status := models.DocumentValid
	if expiry.Before(now) {
		status = models.DocumentExpired
	}

	fileName := utils.DocumentFileName(input.ArtisanID, dt.Key, input.File.Filename, now)
	if err := s.uploads.Store(ctx, DocumentsDir, fileName, input.File); err != nil {
		return nil, false, err
	}

	existing, err := s.documents.Find(ctx, input.ArtisanID, dt.Key)
	if err != nil {
		s.uploads.Remove(ctx, DocumentsDir, fileName)
		return nil, false, fmt.Errorf("failed to load document: %w", err)
	}

	doc := existing
	created := existing == nil
	var previousFile string
	if created {
		doc = &models.ArtisanDocument{ArtisanID: input.ArtisanID, DocumentType: dt.Key}
	} else if doc.HasFile() {
		previousFile = *doc.FileName
	}

	doc.FileName = &fileName
	doc.UploadDate = &now
	doc.ExpiryDate = &expiry
	doc.IsNotConcerned = false
	doc.Status = status

	if created {
		err = s.documents.Create(ctx, doc)
	} else {
		err = s.documents.Update(ctx, doc)
	}
	if err != nil {
		s.uploads.Remove(ctx, DocumentsDir, fileName)
		return nil, false, fmt.Errorf("failed to save document: %w", err)
	}

	if previousFile != "" && previousFile != fileName {
		s.uploads.Remove(ctx, DocumentsDir, previousFile)
	}

	if status == models.DocumentExpired && s.alerts != nil {
		s.alerts.Publish(
			fmt.Sprintf("Document \"%s\" déjà expiré déposé pour %s.", dt.Label, artisan.DisplayName()),
			models.AlertWarning,
		)
	}

	return doc, created, nil
}

// SetNotConcerned marks a document type as (not) applicable, creating the row when needed.
// Clearing the flag sets the status to missing even if a file is attached.
func (s *ComplianceService) SetNotConcerned(ctx context.Context, input NotConcernedInput) (*models.ArtisanDocument, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	dt, err := requireDocumentType(input.DocumentType)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireArtisan(ctx, input.ArtisanID); err != nil {
		return nil, err
	}

	status := models.DocumentMissing
	if input.IsNotConcerned {
		status = models.DocumentValid
	}

	doc, err := s.documents.Find(ctx, input.ArtisanID, dt.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	if doc == nil {
		doc = &models.ArtisanDocument{
			ArtisanID:      input.ArtisanID,
			DocumentType:   dt.Key,
			IsNotConcerned: input.IsNotConcerned,
			Status:         status,
		}
		if err := s.documents.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to create document: %w", err)
		}
		return doc, nil
	}

	doc.IsNotConcerned = input.IsNotConcerned
	doc.Status = status
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return doc, nil
}

// GetDocument returns a stored row by id
func (s *ComplianceService) GetDocument(ctx context.Context, id string) (*models.ArtisanDocument, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, notFound("DOCUMENT_NOT_FOUND", "Document not found")
	}
	return doc, nil
}

// DeleteDocument removes the stored file and the row
func (s *ComplianceService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc.HasFile() {
		s.uploads.Remove(ctx, DocumentsDir, *doc.FileName)
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// OpenDocumentFile returns the content of an uploaded document with the row that references it
func (s *ComplianceService) OpenDocumentFile(ctx context.Context, fileName string) (io.ReadCloser, *models.ArtisanDocument, error) {
	if !utils.IsSafeFileName(fileName) {
		return nil, nil, &ValidationError{Code: "INVALID_FILENAME", Message: "Invalid filename"}
	}

	doc, err := s.documents.FindByFileName(ctx, fileName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, nil, notFound("FILE_NOT_FOUND", "File not found")
	}

	content, err := s.uploads.Open(ctx, DocumentsDir, fileName)
	if errors.Is(err, ErrFileNotFound) {
		return nil, nil, notFound("FILE_NOT_FOUND", "File not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document file: %w", err)
	}
	return content, doc, nil
}

// OpenTemplate returns the blank template of a downloadable document type
func (s *ComplianceService) OpenTemplate(ctx context.Context, documentType string) (io.ReadCloser, DocumentType, error) {
	dt, ok := LookupDocumentType(documentType)
	if !ok || !dt.Downloadable || dt.TemplateFile == "" {
		return nil, DocumentType{}, notFound("TEMPLATE_NOT_FOUND", "Template not found")
	}

	content, err := s.templates.Open(ctx, dt.TemplateFile)
	if errors.Is(err, ErrFileNotFound) {
		return nil, DocumentType{}, notFound("TEMPLATE_FILE_NOT_FOUND", "Template file not found")
	}
	if err != nil {
		return nil, DocumentType{}, fmt.Errorf("failed to open template: %w", err)
	}
	return content, dt, nil
}
