package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/content"
	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

// PageController manages custom content pages for the admin dashboard.
type PageController struct {
	db *gorm.DB
}

// NewPageController creates a new PageController instance.
func NewPageController(db *gorm.DB) *PageController {
	return &PageController{db: db}
}

type pageRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Template  string `json:"template"`
	Content   string `json:"content"`
	Columns   int    `json:"columns"`
	ShowTitle *bool  `json:"showTitle"`
	Published *bool  `json:"published"`
}

// List returns the tenant's pages ordered for the dashboard.
func (p *PageController) List(ctx *gin.Context) {
	var pages []models.Page
	err := p.db.Where("tenant_id = ?", ctx.GetString(middleware.CtxTenantID)).
		Order("sort_order asc, created_at asc").
		Find(&pages).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list pages")
		return
	}
	utils.Success(ctx, pages)
}

// Get returns a single page.
func (p *PageController) Get(ctx *gin.Context) {
	page, ok := p.find(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, page)
}

// Create adds a new page for the tenant.
func (p *PageController) Create(ctx *gin.Context) {
	var req pageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	page := models.Page{
		TenantID:  ctx.GetString(middleware.CtxTenantID),
		Template:  models.TemplateTextCentered,
		Columns:   1,
		ShowTitle: true,
	}
	if !p.applyRequest(ctx, &page, &req) {
		return
	}
	if page.Title == "" || page.Slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40014, "title and slug are required")
		return
	}

	page.SortOrder = nextSortOrder(p.db, &models.Page{}, page.TenantID)
	if err := p.db.Create(&page).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40902, "slug already in use")
		return
	}
	utils.Success(ctx, page)
}

// Update modifies an existing page.
func (p *PageController) Update(ctx *gin.Context) {
	page, ok := p.find(ctx)
	if !ok {
		return
	}

	var req pageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	if !p.applyRequest(ctx, page, &req) {
		return
	}

	if err := p.db.Save(page).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40902, "slug already in use")
		return
	}
	utils.Success(ctx, page)
}

// Delete removes a page.
func (p *PageController) Delete(ctx *gin.Context) {
	page, ok := p.find(ctx)
	if !ok {
		return
	}
	if err := p.db.Delete(page).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to delete page")
		return
	}
	utils.Success(ctx, gin.H{"message": "deleted"})
}

// Reorder persists a new page ordering from the dashboard.
func (p *PageController) Reorder(ctx *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	tenantID := ctx.GetString(middleware.CtxTenantID)
	err := p.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range req.IDs {
			res := tx.Model(&models.Page{}).
				Where("id = ? AND tenant_id = ?", id, tenantID).
				Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to reorder pages")
		return
	}
	utils.Success(ctx, gin.H{"message": "reordered"})
}

// Preview renders a page the same way the public site does, so editors see
// exactly what visitors will.
func (p *PageController) Preview(ctx *gin.Context) {
	page, ok := p.find(ctx)
	if !ok {
		return
	}
	rendered, err := content.Render(ctx.Request.Context(), content.GormMediaFinder{DB: p.db}, page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to render page")
		return
	}
	utils.Success(ctx, rendered)
}

// find loads a page scoped to the caller's tenant; cross-tenant IDs read as
// not found.
func (p *PageController) find(ctx *gin.Context) (*models.Page, bool) {
	var page models.Page
	err := p.db.Where("id = ? AND tenant_id = ?", ctx.Param("id"), ctx.GetString(middleware.CtxTenantID)).
		First(&page).Error
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "page not found")
		return nil, false
	}
	return &page, true
}

// applyRequest validates and copies request fields onto the page. Content is
// normalized through the content package so only canonical shapes are stored.
func (p *PageController) applyRequest(ctx *gin.Context, page *models.Page, req *pageRequest) bool {
	if req.Title != "" {
		page.Title = utils.SanitizeStrict(req.Title)
	}
	if req.Slug != "" {
		slug := utils.Slugify(req.Slug)
		if !utils.ValidSlug(slug) {
			utils.Error(ctx, http.StatusBadRequest, 40010, "slug is invalid or reserved")
			return false
		}
		page.Slug = slug
	}
	if req.Template != "" {
		if !models.ValidTemplate(req.Template) {
			utils.Error(ctx, http.StatusBadRequest, 40015, "unknown template")
			return false
		}
		page.Template = req.Template
	}
	if req.Columns != 0 {
		if req.Columns < 1 || req.Columns > 4 {
			utils.Error(ctx, http.StatusBadRequest, 40016, "columns must be 1-4")
			return false
		}
		page.Columns = req.Columns
	}
	if req.ShowTitle != nil {
		page.ShowTitle = *req.ShowTitle
	}
	if req.Published != nil {
		page.Published = *req.Published
	}

	if req.Content != "" {
		switch page.Template {
		case models.TemplateTextColumns:
			cols := content.ParseColumns(req.Content, equalColumnsLayout(page.Columns))
			cols.Blocks = content.SyncBlocks(cols.Blocks, content.LayoutColCount(cols.Layout))
			page.Content = content.SerializeColumns(cols)
		case models.TemplateMasonry:
			page.Content = content.SerializeMasonry(content.ParseMasonry(req.Content))
		default:
			page.Content = req.Content
		}
	}
	return true
}

func equalColumnsLayout(n int) string {
	layout := "1"
	for i := 1; i < n; i++ {
		layout += "-1"
	}
	return layout
}

// nextSortOrder places new rows after the tenant's current maximum.
func nextSortOrder(db *gorm.DB, model interface{}, tenantID string) int {
	var max *int
	db.Model(model).Where("tenant_id = ?", tenantID).
		Select("MAX(sort_order)").Scan(&max)
	if max == nil {
		return 0
	}
	return *max + 1
}
