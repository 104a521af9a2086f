package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/content"
	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

const siteCacheTTL = time.Minute

// SiteController serves the public, read-only portfolio site.
type SiteController struct {
	db *gorm.DB
}

// NewSiteController creates a new SiteController instance.
func NewSiteController(db *gorm.DB) *SiteController {
	return &SiteController{db: db}
}

// GetSite returns the tenant's branding, navigation, and published structure
// in one payload for the site shell.
func (s *SiteController) GetSite(ctx *gin.Context) {
	tenant := middleware.TenantFrom(ctx)
	if tenant == nil {
		utils.Error(ctx, http.StatusNotFound, 40405, "site not found")
		return
	}

	cacheKey := "site:" + tenant.ID + ":shell"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached gin.H
		if err := json.Unmarshal(b, &cached); err == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	var categories []models.Category
	s.db.Where("tenant_id = ?", tenant.ID).
		Order("sort_order asc").
		Preload("Projects", func(db *gorm.DB) *gorm.DB {
			return db.Where("published = ?", true).Order("sort_order asc")
		}).
		Find(&categories)

	var pages []models.Page
	s.db.Where("tenant_id = ? AND published = ?", tenant.ID, true).
		Order("sort_order asc").
		Select("id", "title", "slug", "template", "sort_order").
		Find(&pages)

	payload := gin.H{
		"tenant":     tenant,
		"categories": categories,
		"pages":      pages,
	}
	utils.CacheSetJSON(cacheKey, payload, siteCacheTTL)
	utils.Success(ctx, payload)
}

// GetPage returns one published page, rendered for its template.
func (s *SiteController) GetPage(ctx *gin.Context) {
	tenant := middleware.TenantFrom(ctx)
	if tenant == nil {
		utils.Error(ctx, http.StatusNotFound, 40405, "site not found")
		return
	}

	var page models.Page
	err := s.db.Where("tenant_id = ? AND slug = ? AND published = ?", tenant.ID, ctx.Param("slug"), true).
		First(&page).Error
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "page not found")
		return
	}

	rendered, err := content.Render(ctx.Request.Context(), content.GormMediaFinder{DB: s.db}, &page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to render page")
		return
	}
	utils.Success(ctx, gin.H{"page": page, "rendered": rendered})
}

// GetProject returns one published project with its media.
func (s *SiteController) GetProject(ctx *gin.Context) {
	tenant := middleware.TenantFrom(ctx)
	if tenant == nil {
		utils.Error(ctx, http.StatusNotFound, 40405, "site not found")
		return
	}

	var project models.Project
	err := s.db.Where("tenant_id = ? AND slug = ? AND published = ?", tenant.ID, ctx.Param("slug"), true).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		First(&project).Error
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
		return
	}
	utils.Success(ctx, project)
}

// GetFeatured lists featured tenants for the platform showcase.
func (s *SiteController) GetFeatured(ctx *gin.Context) {
	var tenants []models.Tenant
	err := s.db.Where("featured = ?", true).
		Order("updated_at desc").
		Limit(24).
		Select("id", "slug", "domain", "name", "bio", "logo_url").
		Find(&tenants).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to list featured sites")
		return
	}
	utils.Success(ctx, tenants)
}
