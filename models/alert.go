package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertType is the severity of a system alert
type AlertType string

const (
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
	AlertError   AlertType = "error"
)

// IsValid reports whether t is a known alert type
func (t AlertType) IsValid() bool {
	return t == AlertInfo || t == AlertWarning || t == AlertError
}

// Alert is an append-only system message shown to administrators
type Alert struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Message   string    `gorm:"not null" json:"message"`
	Type      AlertType `gorm:"not null;size:16;default:'info';check:chk_alerts_type,type IN ('info','warning','error')" json:"type"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName specifies the table name for the Alert model
func (Alert) TableName() string {
	return "alerts"
}

// BeforeCreate assigns an id when the caller did not provide one
func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
