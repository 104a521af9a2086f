package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

// ProjectController manages portfolio projects.
type ProjectController struct {
	db *gorm.DB
}

// NewProjectController creates a new ProjectController instance.
func NewProjectController(db *gorm.DB) *ProjectController {
	return &ProjectController{db: db}
}

type projectRequest struct {
	CategoryID  string `json:"categoryId"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Published   *bool  `json:"published"`
}

// List returns the tenant's projects, optionally filtered by category.
func (p *ProjectController) List(ctx *gin.Context) {
	q := p.db.Where("tenant_id = ?", ctx.GetString(middleware.CtxTenantID))
	if cat := ctx.Query("categoryId"); cat != "" {
		q = q.Where("category_id = ?", cat)
	}

	var projects []models.Project
	err := q.Order("sort_order asc, created_at asc").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Find(&projects).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to list projects")
		return
	}
	utils.Success(ctx, projects)
}

// Get returns a single project with its media.
func (p *ProjectController) Get(ctx *gin.Context) {
	var project models.Project
	err := p.db.Where("id = ? AND tenant_id = ?", ctx.Param("id"), ctx.GetString(middleware.CtxTenantID)).
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

// Create adds a new project inside one of the tenant's categories.
func (p *ProjectController) Create(ctx *gin.Context) {
	var req projectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Title == "" || req.CategoryID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	tenantID := ctx.GetString(middleware.CtxTenantID)

	// the category must belong to the caller
	var category models.Category
	if err := p.db.Where("id = ? AND tenant_id = ?", req.CategoryID, tenantID).First(&category).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "category not found")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = req.Title
	}
	slug = utils.Slugify(slug)
	if !utils.ValidSlug(slug) {
		utils.Error(ctx, http.StatusBadRequest, 40010, "slug is invalid or reserved")
		return
	}

	project := models.Project{
		TenantID:    tenantID,
		CategoryID:  category.ID,
		Title:       utils.SanitizeStrict(req.Title),
		Slug:        slug,
		Description: utils.Sanitize(req.Description),
		SortOrder:   nextSortOrder(p.db, &models.Project{}, tenantID),
	}
	if req.Published != nil {
		project.Published = *req.Published
	}

	if err := p.db.Create(&project).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40902, "slug already in use")
		return
	}
	utils.Success(ctx, project)
}

// Update modifies an existing project.
func (p *ProjectController) Update(ctx *gin.Context) {
	project, ok := p.find(ctx)
	if !ok {
		return
	}

	var req projectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	tenantID := ctx.GetString(middleware.CtxTenantID)
	if req.CategoryID != "" && req.CategoryID != project.CategoryID {
		var category models.Category
		if err := p.db.Where("id = ? AND tenant_id = ?", req.CategoryID, tenantID).First(&category).Error; err != nil {
			utils.Error(ctx, http.StatusNotFound, 40402, "category not found")
			return
		}
		project.CategoryID = category.ID
	}
	if req.Title != "" {
		project.Title = utils.SanitizeStrict(req.Title)
	}
	if req.Slug != "" {
		slug := utils.Slugify(req.Slug)
		if !utils.ValidSlug(slug) {
			utils.Error(ctx, http.StatusBadRequest, 40010, "slug is invalid or reserved")
			return
		}
		project.Slug = slug
	}
	if req.Description != "" {
		project.Description = utils.Sanitize(req.Description)
	}
	if req.Published != nil {
		project.Published = *req.Published
	}

	if err := p.db.Save(project).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40902, "slug already in use")
		return
	}
	utils.Success(ctx, project)
}

// Delete removes a project and its media rows.
func (p *ProjectController) Delete(ctx *gin.Context) {
	project, ok := p.find(ctx)
	if !ok {
		return
	}
	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Media{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to delete project")
		return
	}
	utils.Success(ctx, gin.H{"message": "deleted"})
}

// Reorder persists a new project ordering within the tenant.
func (p *ProjectController) Reorder(ctx *gin.Context) {
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
			res := tx.Model(&models.Project{}).
				Where("id = ? AND tenant_id = ?", id, tenantID).
				Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to reorder projects")
		return
	}
	utils.Success(ctx, gin.H{"message": "reordered"})
}

func (p *ProjectController) find(ctx *gin.Context) (*models.Project, bool) {
	var project models.Project
	err := p.db.Where("id = ? AND tenant_id = ?", ctx.Param("id"), ctx.GetString(middleware.CtxTenantID)).
		First(&project).Error
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
		return nil, false
	}
	return &project, true
}
