package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

// projectOrder sorts by start date descending with undated projects last,
// then by id so that equal dates list deterministically.
const projectOrder = "start_date IS NULL, start_date DESC, id"

type ProjectGormRepository struct {
	db *gorm.DB
}

func NewProjectGormRepository(db *gorm.DB) *ProjectGormRepository {
	return &ProjectGormRepository{db: db}
}

func (r *ProjectGormRepository) listQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Client").Order(projectOrder)
}

func (r *ProjectGormRepository) ListAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.listQuery(ctx).Find(&projects).Error
	return projects, err
}

func (r *ProjectGormRepository) ListForArtisan(ctx context.Context, artisanID string) ([]models.Project, error) {
	linked := r.db.Model(&models.ProjectArtisan{}).Select("project_id").Where("artisan_id = ?", artisanID)

	var projects []models.Project
	err := r.listQuery(ctx).Where("id IN (?)", linked).Find(&projects).Error
	return projects, err
}

func (r *ProjectGormRepository) ListForClient(ctx context.Context, clientID string) ([]models.Project, error) {
	var projects []models.Project
	err := r.listQuery(ctx).Where("client_id = ?", clientID).Find(&projects).Error
	return projects, err
}

func (r *ProjectGormRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	return first[models.Project](r.db.WithContext(ctx).Preload("Client").Where("id = ?", id))
}

func (r *ProjectGormRepository) ArtisanLinks(ctx context.Context, projectIDs []string) ([]models.ProjectArtisan, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var links []models.ProjectArtisan
	err := r.db.WithContext(ctx).
		Preload("Artisan").
		Where("project_id IN ?", projectIDs).
		Order("project_id").Order("artisan_id").
		Find(&links).Error
	return links, err
}

func (r *ProjectGormRepository) Create(ctx context.Context, project *models.Project, artisanIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		return insertLinks(tx, project.ID, artisanIDs)
	})
}

func (r *ProjectGormRepository) Replace(ctx context.Context, project *models.Project, artisanIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Project{}).Where("id = ?", project.ID).Updates(map[string]any{
			"title":              project.Title,
			"client_id":          project.ClientID,
			"status":             project.Status,
			"start_date":         project.StartDate,
			"description":        project.Description,
			"end_of_work_signed": project.EndOfWorkSigned,
		}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectArtisan{}).Error; err != nil {
			return err
		}
		return insertLinks(tx, project.ID, artisanIDs)
	})
}

func (r *ProjectGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectArtisan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	})
}

func insertLinks(tx *gorm.DB, projectID string, artisanIDs []string) error {
	if len(artisanIDs) == 0 {
		return nil
	}
	links := make([]models.ProjectArtisan, 0, len(artisanIDs))
	for _, artisanID := range artisanIDs {
		links = append(links, models.ProjectArtisan{ProjectID: projectID, ArtisanID: artisanID})
	}
	return tx.Omit(clause.Associations).Create(&links).Error
}
