package models

import "time"

// Page types a view can be attributed to.
const (
	PageTypeHome     = "home"
	PageTypeCategory = "category"
	PageTypeProject  = "project"
	PageTypePage     = "page"
)

// ValidPageType reports whether t is a known page type.
func ValidPageType(t string) bool {
	switch t {
	case PageTypeHome, PageTypeCategory, PageTypeProject, PageTypePage:
		return true
	}
	return false
}

// PageView is a single raw visit event. Rows are never mutated; the
// aggregation job consumes and deletes them once their day has elapsed.
type PageView struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    string    `gorm:"index;size:36;not null" json:"tenant_id"`
	Path        string    `gorm:"size:500;not null" json:"path"`
	PageType    string    `gorm:"size:16;not null" json:"page_type"`
	ResourceID  string    `gorm:"size:36" json:"resource_id"`
	VisitorHash string    `gorm:"size:16;not null" json:"visitor_hash"`
	Referrer    string    `gorm:"size:255" json:"referrer"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
