package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

type AlertGormRepository struct {
	db *gorm.DB
}

func NewAlertGormRepository(db *gorm.DB) *AlertGormRepository {
	return &AlertGormRepository{db: db}
}

func (r *AlertGormRepository) List(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&alerts).Error
	return alerts, err
}

func (r *AlertGormRepository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}
