package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

type DocumentGormRepository struct {
	db *gorm.DB
}

func NewDocumentGormRepository(db *gorm.DB) *DocumentGormRepository {
	return &DocumentGormRepository{db: db}
}

func (r *DocumentGormRepository) ListForArtisan(ctx context.Context, artisanID string) ([]models.ArtisanDocument, error) {
	var docs []models.ArtisanDocument
	err := r.db.WithContext(ctx).
		Where("artisan_id = ?", artisanID).
		Order("document_type").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentGormRepository) ListForArtisans(ctx context.Context, artisanIDs []string) ([]models.ArtisanDocument, error) {
	if len(artisanIDs) == 0 {
		return nil, nil
	}
	var docs []models.ArtisanDocument
	err := r.db.WithContext(ctx).Where("artisan_id IN ?", artisanIDs).Find(&docs).Error
	return docs, err
}

func (r *DocumentGormRepository) Find(ctx context.Context, artisanID, documentType string) (*models.ArtisanDocument, error) {
	return first[models.ArtisanDocument](r.db.WithContext(ctx).
		Where("artisan_id = ? AND document_type = ?", artisanID, documentType))
}

func (r *DocumentGormRepository) FindByID(ctx context.Context, id string) (*models.ArtisanDocument, error) {
	return first[models.ArtisanDocument](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *DocumentGormRepository) FindByFileName(ctx context.Context, fileName string) (*models.ArtisanDocument, error) {
	return first[models.ArtisanDocument](r.db.WithContext(ctx).Where("file_name = ?", fileName))
}

func (r *DocumentGormRepository) Create(ctx context.Context, doc *models.ArtisanDocument) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(doc).Error
}

// Update writes every column, including zero values such as a cleared flag
func (r *DocumentGormRepository) Update(ctx context.Context, doc *models.ArtisanDocument) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(doc).Error
}

func (r *DocumentGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ArtisanDocument{}).Error
}
