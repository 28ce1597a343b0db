package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectStatus holds the localized status labels stored in the projects table
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "En attente"
	ProjectInProgress ProjectStatus = "En cours"
	ProjectDone       ProjectStatus = "Terminé"
	ProjectCancelled  ProjectStatus = "Annulé"
)

// ProjectStatuses lists the statuses in display priority order
var ProjectStatuses = []ProjectStatus{ProjectPending, ProjectInProgress, ProjectDone, ProjectCancelled}

// IsValid reports whether s is one of the known project statuses
func (s ProjectStatus) IsValid() bool {
	for _, known := range ProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Project represents a client project worked on by zero or more artisans
type Project struct {
	ID              string          `gorm:"primaryKey;size:64" json:"id"`
	Title           string          `gorm:"not null" json:"title"`
	ClientID        string          `gorm:"not null;index;size:64" json:"client_id"`
	Client          User            `gorm:"foreignKey:ClientID" json:"-"`
	Status          ProjectStatus   `gorm:"not null;size:32;default:'En attente';check:chk_projects_status,status IN ('En attente','En cours','Terminé','Annulé')" json:"status"`
	StartDate       *datatypes.Date `gorm:"index" json:"start_date"`
	Description     string          `json:"description"`
	EndOfWorkSigned bool            `gorm:"not null;default:false" json:"end_of_work_signed"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns an id when the caller did not provide one
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProjectArtisan links an artisan to a project; the pair is the primary key
type ProjectArtisan struct {
	ProjectID string  `gorm:"primaryKey;size:64" json:"project_id"`
	ArtisanID string  `gorm:"primaryKey;size:64;index" json:"artisan_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`
	Artisan   User    `gorm:"foreignKey:ArtisanID" json:"-"`
}

// TableName specifies the table name for the ProjectArtisan model
func (ProjectArtisan) TableName() string {
	return "project_artisans"
}
