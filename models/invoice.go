package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceStatus holds the localized invoice status labels
type InvoiceStatus string

const (
	InvoicePending  InvoiceStatus = "En attente"
	InvoicePaid     InvoiceStatus = "Payé"
	InvoiceRejected InvoiceStatus = "Rejeté"
)

// DefaultInvoiceFileName is stored when an invoice is created without a file
const DefaultInvoiceFileName = "facture.pdf"

// Invoice is an amount billed by an artisan on a project
type Invoice struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	ProjectID string          `gorm:"not null;index;size:64" json:"project_id"`
	Project   Project         `gorm:"foreignKey:ProjectID" json:"-"`
	ArtisanID string          `gorm:"not null;index;size:64" json:"artisan_id"`
	Artisan   User            `gorm:"foreignKey:ArtisanID" json:"-"`
	Amount    float64         `gorm:"not null;default:0" json:"amount"`
	Date      *datatypes.Date `json:"date"`
	Status    InvoiceStatus   `gorm:"not null;size:32;default:'En attente';check:chk_invoices_status,status IN ('En attente','Payé','Rejeté')" json:"status"`
	FileName  string          `gorm:"default:'facture.pdf'" json:"file_name"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// BeforeCreate assigns an id when the caller did not provide one
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
