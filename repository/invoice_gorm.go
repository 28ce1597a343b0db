package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) ListForArtisan(ctx context.Context, artisanID string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("artisan_id = ?", artisanID).
		Order("date DESC").
		Order("id").
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceGormRepository) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	return first[models.Invoice](r.db.WithContext(ctx).Preload("Project").Where("id = ?", id))
}

func (r *InvoiceGormRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(invoice).Error
}
