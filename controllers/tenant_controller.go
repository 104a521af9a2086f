package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

// TenantController manages tenant settings and the platform-operator views.
type TenantController struct {
	db *gorm.DB
}

// NewTenantController creates a new TenantController instance.
func NewTenantController(db *gorm.DB) *TenantController {
	return &TenantController{db: db}
}

// GetSettings returns the caller's tenant record.
func (t *TenantController) GetSettings(ctx *gin.Context) {
	var tenant models.Tenant
	if err := t.db.First(&tenant, "id = ?", ctx.GetString(middleware.CtxTenantID)).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40405, "tenant not found")
		return
	}
	utils.Success(ctx, tenant)
}

type tenantSettingsRequest struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Domain *string `json:"domain"`

	PrimaryColor *string `json:"primaryColor"`
	BgColor      *string `json:"bgColor"`
	FontFamily   *string `json:"fontFamily"`
	FontSource   *string `json:"fontSource"`
	LogoURL      *string `json:"logoUrl"`
	FaviconURL   *string `json:"faviconUrl"`

	PortfolioLayout  *string `json:"portfolioLayout"`
	HomePosition     *string `json:"homePosition"`
	NavPosition      *string `json:"navPosition"`
	TitlePosition    *string `json:"titlePosition"`
	AboutPosition    *string `json:"aboutPosition"`
	NavLabel         *string `json:"navLabel"`
	AboutLabel       *string `json:"aboutLabel"`
	NavAutoExpand    *bool   `json:"navAutoExpand"`
	OverlayAnimation *string `json:"overlayAnimation"`
	TransitionStyle  *string `json:"transitionStyle"`
	HeroDuration     *int    `json:"heroDuration"`
	AboutPageID      *string `json:"aboutPageId"`
	HomePageID       *string `json:"homePageId"`

	InstagramURL *string `json:"instagramUrl"`
	BehanceURL   *string `json:"behanceUrl"`
	LinkedinURL  *string `json:"linkedinUrl"`
	WebsiteURL   *string `json:"websiteUrl"`
}

// UpdateSettings applies partial updates to the tenant record and drops the
// cached public-site entries.
func (t *TenantController) UpdateSettings(ctx *gin.Context) {
	var tenant models.Tenant
	if err := t.db.First(&tenant, "id = ?", ctx.GetString(middleware.CtxTenantID)).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40405, "tenant not found")
		return
	}

	var req tenantSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	setStr := func(dst *string, src *string, strict bool) {
		if src == nil {
			return
		}
		if strict {
			*dst = utils.SanitizeStrict(*src)
		} else {
			*dst = utils.Sanitize(*src)
		}
	}

	setStr(&tenant.Name, req.Name, true)
	setStr(&tenant.Bio, req.Bio, false)
	setStr(&tenant.Domain, req.Domain, true)
	setStr(&tenant.PrimaryColor, req.PrimaryColor, true)
	setStr(&tenant.BgColor, req.BgColor, true)
	setStr(&tenant.FontFamily, req.FontFamily, true)
	setStr(&tenant.FontSource, req.FontSource, true)
	setStr(&tenant.LogoURL, req.LogoURL, true)
	setStr(&tenant.FaviconURL, req.FaviconURL, true)
	setStr(&tenant.PortfolioLayout, req.PortfolioLayout, true)
	setStr(&tenant.HomePosition, req.HomePosition, true)
	setStr(&tenant.NavPosition, req.NavPosition, true)
	setStr(&tenant.TitlePosition, req.TitlePosition, true)
	setStr(&tenant.AboutPosition, req.AboutPosition, true)
	setStr(&tenant.NavLabel, req.NavLabel, true)
	setStr(&tenant.AboutLabel, req.AboutLabel, true)
	setStr(&tenant.OverlayAnimation, req.OverlayAnimation, true)
	setStr(&tenant.TransitionStyle, req.TransitionStyle, true)
	setStr(&tenant.AboutPageID, req.AboutPageID, true)
	setStr(&tenant.HomePageID, req.HomePageID, true)
	setStr(&tenant.InstagramURL, req.InstagramURL, true)
	setStr(&tenant.BehanceURL, req.BehanceURL, true)
	setStr(&tenant.LinkedinURL, req.LinkedinURL, true)
	setStr(&tenant.WebsiteURL, req.WebsiteURL, true)
	if req.NavAutoExpand != nil {
		tenant.NavAutoExpand = *req.NavAutoExpand
	}
	if req.HeroDuration != nil {
		tenant.HeroDuration = *req.HeroDuration
	}

	if err := t.db.Save(&tenant).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to update settings")
		return
	}

	// public-site and resolver caches now hold stale data
	utils.CacheDelete("tenant:slug:" + tenant.Slug)
	if tenant.Domain != "" {
		utils.CacheDelete("tenant:domain:" + tenant.Domain)
	}
	utils.InvalidateByPrefix("site:" + tenant.ID)

	utils.Success(ctx, tenant)
}

// ListTenants is the platform-operator view over all tenants.
func (t *TenantController) ListTenants(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "50"))
	if size < 1 || size > 200 {
		size = 50
	}

	var total int64
	t.db.Model(&models.Tenant{}).Count(&total)

	var tenants []models.Tenant
	err := t.db.Order("created_at desc").
		Limit(size).Offset((page - 1) * size).
		Find(&tenants).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to list tenants")
		return
	}
	utils.Success(ctx, gin.H{"tenants": tenants, "total": total, "page": page, "size": size})
}

// SetFeatured toggles a tenant's spot on the platform showcase.
func (t *TenantController) SetFeatured(ctx *gin.Context) {
	var req struct {
		Featured bool `json:"featured"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	res := t.db.Model(&models.Tenant{}).
		Where("id = ?", ctx.Param("id")).
		Update("featured", req.Featured)
	if res.Error != nil || res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40405, "tenant not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "updated"})
}
