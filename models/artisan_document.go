package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentStatus is the status of a single compliance document
type DocumentStatus string

const (
	DocumentValid   DocumentStatus = "valid"
	DocumentExpired DocumentStatus = "expired"
	DocumentMissing DocumentStatus = "missing"
)

// ComplianceStatus is the aggregate verdict over all of an artisan's documents
type ComplianceStatus string

const (
	ComplianceCompliant ComplianceStatus = "compliant"
	ComplianceExpired   ComplianceStatus = "expired"
	ComplianceMissing   ComplianceStatus = "missing"
)

// ArtisanDocument is the stored state of one catalog document for one artisan.
// There is at most one row per (artisan, document type).
type ArtisanDocument struct {
	ID             string         `gorm:"primaryKey;size:64" json:"id"`
	ArtisanID      string         `gorm:"not null;size:64;uniqueIndex:uq_artisan_document_type" json:"artisan_id"`
	Artisan        User           `gorm:"foreignKey:ArtisanID" json:"-"`
	DocumentType   string         `gorm:"not null;size:64;uniqueIndex:uq_artisan_document_type" json:"document_type"`
	FileName       *string        `json:"file_name"`
	UploadDate     *time.Time     `json:"upload_date"`
	ExpiryDate     *time.Time     `json:"expiry_date"`
	IsNotConcerned bool           `gorm:"not null;default:false" json:"is_not_concerned"`
	Status         DocumentStatus `gorm:"not null;size:16;default:'missing';check:chk_artisan_documents_status,status IN ('valid','expired','missing')" json:"status"`
}

// TableName specifies the table name for the ArtisanDocument model
func (ArtisanDocument) TableName() string {
	return "artisan_documents"
}

// BeforeCreate assigns an id when the caller did not provide one
func (d *ArtisanDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// ExpiredAt reports whether the expiry date is strictly before now.
// A document without an expiry date never expires.
func (d ArtisanDocument) ExpiredAt(now time.Time) bool {
	return d.ExpiryDate != nil && d.ExpiryDate.Before(now)
}

// HasFile reports whether a file is attached to the row
func (d ArtisanDocument) HasFile() bool {
	return d.FileName != nil && *d.FileName != ""
}
