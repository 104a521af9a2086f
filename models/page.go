package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Page templates. Content is an opaque string whose shape depends on the
// template; the content package owns (de)serialization.
const (
	TemplateTextCentered = "text-centered"
	TemplateTextWide     = "text-wide"
	TemplateTextColumns  = "text-columns"
	TemplateMasonry      = "masonry"
)

// PageTemplates is the closed set of valid templates.
var PageTemplates = []string{
	TemplateTextCentered,
	TemplateTextWide,
	TemplateTextColumns,
	TemplateMasonry,
}

// ValidTemplate reports whether t names a known page template.
func ValidTemplate(t string) bool {
	for _, v := range PageTemplates {
		if v == t {
			return true
		}
	}
	return false
}

// Page is a custom content page on a tenant site.
type Page struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID  string    `gorm:"index:idx_page_tenant_slug,unique;size:36;not null" json:"tenant_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Slug      string    `gorm:"index:idx_page_tenant_slug,unique;size:64;not null" json:"slug"`
	Template  string    `gorm:"size:16;default:'text-centered'" json:"template"`
	Content   string    `gorm:"type:text" json:"content"`
	Columns   int       `gorm:"default:1" json:"columns"`
	ShowTitle bool      `gorm:"default:true" json:"show_title"`
	Published bool      `gorm:"default:false" json:"published"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
