package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsDaily is the per-day/per-path rollup of raw page views.
// Views is a running counter that accumulates across aggregation runs;
// UniqueVisitors and ReferrerJSON hold the values of the most recent run
// for that key (replaced on conflict, not merged).
type AnalyticsDaily struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID       string    `gorm:"index:idx_daily_key,unique;size:36;not null" json:"tenant_id"`
	Date           string    `gorm:"index:idx_daily_key,unique;size:10;not null" json:"date"`
	Path           string    `gorm:"index:idx_daily_key,unique;size:500;not null" json:"path"`
	PageType       string    `gorm:"size:16;not null" json:"page_type"`
	ResourceID     string    `gorm:"size:36" json:"resource_id"`
	Views          int64     `gorm:"not null;default:0" json:"views"`
	UniqueVisitors int64     `gorm:"not null;default:0" json:"unique_visitors"`
	ReferrerJSON   string    `gorm:"type:text" json:"referrer_json"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (a *AnalyticsDaily) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
