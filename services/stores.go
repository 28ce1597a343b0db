package services

import (
	"context"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

// Store interfaces are implemented by the GORM repositories in package repository.
// Find* methods return (nil, nil) when no row matches.

// UserStore persists portal users
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, fields map[string]any) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int64, error)
	OwnsProjects(ctx context.Context, id string) (bool, error)
	// Delete removes the user with its project links, invoices and documents
	Delete(ctx context.Context, id string) error
}

// ProjectStore persists projects and their artisan links
type ProjectStore interface {
	ListAll(ctx context.Context) ([]models.Project, error)
	ListForArtisan(ctx context.Context, artisanID string) ([]models.Project, error)
	ListForClient(ctx context.Context, clientID string) ([]models.Project, error)
	FindByID(ctx context.Context, id string) (*models.Project, error)
	ArtisanLinks(ctx context.Context, projectIDs []string) ([]models.ProjectArtisan, error)
	Create(ctx context.Context, project *models.Project, artisanIDs []string) error
	// Replace overwrites every editable column and the whole artisan link set
	Replace(ctx context.Context, project *models.Project, artisanIDs []string) error
	// Delete removes the project's links and invoices before the project itself
	Delete(ctx context.Context, id string) error
}

// DocumentStore persists artisan compliance documents
type DocumentStore interface {
	ListForArtisan(ctx context.Context, artisanID string) ([]models.ArtisanDocument, error)
	ListForArtisans(ctx context.Context, artisanIDs []string) ([]models.ArtisanDocument, error)
	Find(ctx context.Context, artisanID, documentType string) (*models.ArtisanDocument, error)
	FindByID(ctx context.Context, id string) (*models.ArtisanDocument, error)
	FindByFileName(ctx context.Context, fileName string) (*models.ArtisanDocument, error)
	Create(ctx context.Context, doc *models.ArtisanDocument) error
	Update(ctx context.Context, doc *models.ArtisanDocument) error
	Delete(ctx context.Context, id string) error
}

// InvoiceStore persists invoices
type InvoiceStore interface {
	ListForArtisan(ctx context.Context, artisanID string) ([]models.Invoice, error)
	FindByID(ctx context.Context, id string) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
}

// AlertStore persists system alerts
type AlertStore interface {
	List(ctx context.Context) ([]models.Alert, error)
	Create(ctx context.Context, alert *models.Alert) error
}
