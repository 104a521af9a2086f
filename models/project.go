package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a portfolio work entry inside a category.
type Project struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID    string    `gorm:"index:idx_proj_tenant_slug,unique;size:36;not null" json:"tenant_id"`
	CategoryID  string    `gorm:"index;size:36;not null" json:"category_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"index:idx_proj_tenant_slug,unique;size:64;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Published   bool      `gorm:"default:false" json:"published"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Media []Media `gorm:"constraint:OnDelete:CASCADE" json:"media,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
