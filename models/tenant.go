package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is one portfolio site owner. All other rows hang off a tenant.
type Tenant struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	Slug   string `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Domain string `gorm:"index;size:253" json:"domain"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Bio    string `gorm:"type:text" json:"bio"`
	Email  string `gorm:"size:255" json:"email"`

	// Branding
	PrimaryColor string `gorm:"size:7;default:'#111111'" json:"primary_color"`
	BgColor      string `gorm:"size:7;default:'#ffffff'" json:"bg_color"`
	FontFamily   string `gorm:"size:100" json:"font_family"`
	FontSource   string `gorm:"size:16;default:'system'" json:"font_source"`
	LogoURL      string `gorm:"size:512" json:"logo_url"`
	FaviconURL   string `gorm:"size:512" json:"favicon_url"`

	// Layout and overlay navigation
	PortfolioLayout  string `gorm:"size:16;default:'standard'" json:"portfolio_layout"`
	HomePosition     string `gorm:"size:16;default:'top-left'" json:"home_position"`
	NavPosition      string `gorm:"size:16;default:'bottom-left'" json:"nav_position"`
	TitlePosition    string `gorm:"size:16;default:'hidden'" json:"title_position"`
	AboutPosition    string `gorm:"size:16;default:'bottom-right'" json:"about_position"`
	NavLabel         string `gorm:"size:30;default:'Work'" json:"nav_label"`
	AboutLabel       string `gorm:"size:30;default:'About'" json:"about_label"`
	NavAutoExpand    bool   `gorm:"default:false" json:"nav_auto_expand"`
	OverlayAnimation string `gorm:"size:16;default:'fade'" json:"overlay_animation"`
	TransitionStyle  string `gorm:"size:16;default:'slide-up'" json:"transition_style"`
	HeroDuration     int    `gorm:"default:0" json:"hero_duration"`
	AboutPageID      string `gorm:"size:36" json:"about_page_id"`
	HomePageID       string `gorm:"size:36" json:"home_page_id"`

	// Social links
	InstagramURL string `gorm:"size:512" json:"instagram_url"`
	BehanceURL   string `gorm:"size:512" json:"behance_url"`
	LinkedinURL  string `gorm:"size:512" json:"linkedin_url"`
	WebsiteURL   string `gorm:"size:512" json:"website_url"`

	Featured  bool      `gorm:"default:false" json:"featured"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Categories []Category `gorm:"constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Pages      []Page     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
