package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the portal role of a user
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleArtisan Role = "ARTISAN"
	RoleClient  Role = "CLIENT"
)

// Roles lists every role accepted by the users table
var Roles = []Role{RoleAdmin, RoleArtisan, RoleClient}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User represents a portal account (administrator, artisan or client)
type User struct {
	ID              string            `gorm:"primaryKey;size:64" json:"id"`
	Name            string            `gorm:"not null" json:"name"`
	Email           string            `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string            `gorm:"not null" json:"-"`
	Role            Role              `gorm:"not null;size:16;check:chk_users_role,role IN ('ADMIN','ARTISAN','CLIENT')" json:"role"`
	IsOnboarded     bool              `gorm:"not null;default:false" json:"is_onboarded"`
	CompanyName     *string           `json:"company_name"`
	Specialty       *string           `json:"specialty"`
	Address         *string           `json:"address"`
	Lat             *float64          `json:"lat"`
	Lng             *float64          `json:"lng"`
	DocumentsStatus *ComplianceStatus `gorm:"size:16;check:chk_users_documents_status,documents_status IN ('compliant','missing','expired')" json:"documents_status"` // recomputed on read for artisans
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an id when the caller did not provide one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName returns the company name when set, otherwise the personal name
func (u User) DisplayName() string {
	return DisplayName(u.Name, u.CompanyName)
}

// DisplayName picks the company name over the personal name
func DisplayName(name string, company *string) string {
	if company != nil && strings.TrimSpace(*company) != "" {
		return *company
	}
	return name
}
