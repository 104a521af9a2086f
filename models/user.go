package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. SUPER_ADMIN may manage tenants across the platform.
const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// User is an admin account belonging to a tenant. Passwords are stored as
// bcrypt hashes only.
type User struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	TenantID      string     `gorm:"index;size:36;not null" json:"tenant_id"`
	Email         string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	Name          string     `gorm:"size:100" json:"name"`
	Role          string     `gorm:"size:16;default:'ADMIN'" json:"role"`
	Provider      string     `gorm:"size:32" json:"provider"`
	ProviderID    string     `gorm:"size:255" json:"-"`
	EmailVerified bool       `gorm:"default:false" json:"email_verified"`
	ResetToken    string     `gorm:"index;size:64" json:"-"`
	ResetExpires  *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Tenant Tenant `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
