package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups projects on the public site. ColumnCount controls the
// image grid width (1-4 columns).
type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID    string    `gorm:"index:idx_cat_tenant_slug,unique;size:36;not null" json:"tenant_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Slug        string    `gorm:"index:idx_cat_tenant_slug,unique;size:64;not null" json:"slug"`
	ColumnCount int       `gorm:"default:3" json:"column_count"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Projects []Project `gorm:"constraint:OnDelete:CASCADE" json:"projects,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
