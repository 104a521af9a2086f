package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/config"
	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

// allowedMimeTypes whitelists what the public site can serve back out.
var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

// MediaController handles uploads and media metadata.
type MediaController struct {
	db    *gorm.DB
	store utils.BlobStore
}

// NewMediaController creates a new MediaController instance.
func NewMediaController(db *gorm.DB, store utils.BlobStore) *MediaController {
	return &MediaController{db: db, store: store}
}

// List returns the tenant's media, optionally filtered by project.
func (m *MediaController) List(ctx *gin.Context) {
	q := m.db.Where("tenant_id = ?", ctx.GetString(middleware.CtxTenantID))
	if pid := ctx.Query("projectId"); pid != "" {
		q = q.Where("project_id = ?", pid)
	}

	var media []models.Media
	if err := q.Order("sort_order asc, created_at asc").Find(&media).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to list media")
		return
	}
	utils.Success(ctx, media)
}

// Upload stores one file and records its metadata.
func (m *MediaController) Upload(ctx *gin.Context) {
	cfg := config.Get()
	tenantID := ctx.GetString(middleware.CtxTenantID)

	file, err := ctx.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40017, "missing file")
		return
	}
	if file.Size > int64(cfg.MaxUploadSizeMB)<<20 {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, "file too large")
		return
	}

	mimeType := file.Header.Get("Content-Type")
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40018, "unsupported file type")
		return
	}

	projectID := ctx.PostForm("projectId")
	if projectID != "" {
		var project models.Project
		if err := m.db.Where("id = ? AND tenant_id = ?", projectID, tenantID).First(&project).Error; err != nil {
			utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
			return
		}
	}

	src, err := file.Open()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to read upload")
		return
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s%s", tenantID, uuid.NewString(), ext)
	if err := m.store.Put(key, src); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to store file")
		return
	}

	media := models.Media{
		TenantID:  tenantID,
		ProjectID: projectID,
		Path:      key,
		MimeType:  mimeType,
		SizeBytes: file.Size,
		AltText:   utils.SanitizeStrict(ctx.PostForm("altText")),
		SortOrder: nextSortOrder(m.db.Where("project_id = ?", projectID), &models.Media{}, tenantID),
	}
	if err := m.db.Create(&media).Error; err != nil {
		_ = m.store.Delete(key)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to record media")
		return
	}

	utils.Success(ctx, gin.H{"media": media, "url": m.store.URL(key)})
}

// Update changes media metadata like alt text and sort order.
func (m *MediaController) Update(ctx *gin.Context) {
	media, ok := m.find(ctx)
	if !ok {
		return
	}

	var req struct {
		AltText   *string `json:"altText"`
		SortOrder *int    `json:"sortOrder"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	if req.AltText != nil {
		media.AltText = utils.SanitizeStrict(*req.AltText)
	}
	if req.SortOrder != nil {
		media.SortOrder = *req.SortOrder
	}

	if err := m.db.Save(media).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to update media")
		return
	}
	utils.Success(ctx, media)
}

// Delete removes a media record and its blob.
func (m *MediaController) Delete(ctx *gin.Context) {
	media, ok := m.find(ctx)
	if !ok {
		return
	}
	if err := m.db.Delete(media).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to delete media")
		return
	}
	// blob cleanup is best-effort; an orphaned file is harmless
	if err := m.store.Delete(media.Path); err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("delete blob %s failed: %v", media.Path, err)
	}
	utils.Success(ctx, gin.H{"message": "deleted"})
}

func (m *MediaController) find(ctx *gin.Context) (*models.Media, bool) {
	var media models.Media
	err := m.db.Where("id = ? AND tenant_id = ?", ctx.Param("id"), ctx.GetString(middleware.CtxTenantID)).
		First(&media).Error
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40404, "media not found")
		return nil, false
	}
	return &media, true
}
