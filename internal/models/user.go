package models

import (
	"time"

	"gorm.io/datatypes"
)

// AdminUser is the application-side profile of a login identity. The IsAdmin
// flag gates the privileged provisioning operations.
type AdminUser struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	IdentityID string    `gorm:"uniqueIndex;not null;size:36" json:"identity_id"`
	Email      string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FullName   string    `gorm:"size:255" json:"full_name"`
	IsAdmin    bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for AdminUser model.
func (AdminUser) TableName() string {
	return "admin_users"
}

// Identity is a login credential record managed by the identity service.
type Identity struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string         `gorm:"not null;size:255" json:"-"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Identity model.
func (Identity) TableName() string {
	return "identities"
}
