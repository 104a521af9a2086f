package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media is an uploaded image or video. Path is the blob-storage key; the
// content and render layers treat media as an opaque lookup by ID.
type Media struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID  string    `gorm:"index;size:36;not null" json:"tenant_id"`
	ProjectID string    `gorm:"index;size:36" json:"project_id"`
	Path      string    `gorm:"size:512;not null" json:"path"`
	MimeType  string    `gorm:"size:64;not null" json:"mime_type"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	SizeBytes int64     `json:"size_bytes"`
	AltText   string    `gorm:"size:255" json:"alt_text"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
