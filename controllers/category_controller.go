package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

// CategoryController manages project categories.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ColumnCount int    `json:"columnCount"`
}

// List returns the tenant's categories with their projects.
func (c *CategoryController) List(ctx *gin.Context) {
	var categories []models.Category
	err := c.db.Where("tenant_id = ?", ctx.GetString(middleware.CtxTenantID)).
		Order("sort_order asc, created_at asc").
		Preload("Projects", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Find(&categories).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to list categories")
		return
	}
	utils.Success(ctx, categories)
}

// Create adds a new category.
func (c *CategoryController) Create(ctx *gin.Context) {
	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = req.Name
	}
	slug = utils.Slugify(slug)
	if !utils.ValidSlug(slug) {
		utils.Error(ctx, http.StatusBadRequest, 40010, "slug is invalid or reserved")
		return
	}

	tenantID := ctx.GetString(middleware.CtxTenantID)
	category := models.Category{
		TenantID:    tenantID,
		Name:        utils.SanitizeStrict(req.Name),
		Slug:        slug,
		ColumnCount: clampColumns(req.ColumnCount, 3),
		SortOrder:   nextSortOrder(c.db, &models.Category{}, tenantID),
	}
	if err := c.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40902, "slug already in use")
		return
	}
	utils.Success(ctx, category)
}

// Update modifies an existing category.
func (c *CategoryController) Update(ctx *gin.Context) {
	category, ok := c.find(ctx)
	if !ok {
		return
	}

	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	if req.Name != "" {
		category.Name = utils.SanitizeStrict(req.Name)
	}
	if req.Slug != "" {
		slug := utils.Slugify(req.Slug)
		if !utils.ValidSlug(slug) {
			utils.Error(ctx, http.StatusBadRequest, 40010, "slug is invalid or reserved")
			return
		}
		category.Slug = slug
	}
	if req.ColumnCount != 0 {
		category.ColumnCount = clampColumns(req.ColumnCount, category.ColumnCount)
	}

	if err := c.db.Save(category).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40902, "slug already in use")
		return
	}
	utils.Success(ctx, category)
}

// Delete removes a category and cascades to its projects.
func (c *CategoryController) Delete(ctx *gin.Context) {
	category, ok := c.find(ctx)
	if !ok {
		return
	}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Project{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to delete category")
		return
	}
	utils.Success(ctx, gin.H{"message": "deleted"})
}

// Reorder persists a new category ordering.
func (c *CategoryController) Reorder(ctx *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	tenantID := ctx.GetString(middleware.CtxTenantID)
	err := c.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range req.IDs {
			res := tx.Model(&models.Category{}).
				Where("id = ? AND tenant_id = ?", id, tenantID).
				Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to reorder categories")
		return
	}
	utils.Success(ctx, gin.H{"message": "reordered"})
}

func (c *CategoryController) find(ctx *gin.Context) (*models.Category, bool) {
	var category models.Category
	err := c.db.Where("id = ? AND tenant_id = ?", ctx.Param("id"), ctx.GetString(middleware.CtxTenantID)).
		First(&category).Error
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "category not found")
		return nil, false
	}
	return &category, true
}

func clampColumns(n, fallback int) int {
	if n < 1 || n > 4 {
		return fallback
	}
	return n
}
