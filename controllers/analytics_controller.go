package controllers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/analytics"
	"github.com/jvtipil/unfolde/config"
	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

const summaryCacheTTL = 5 * time.Minute

// AnalyticsController exposes event tracking, summary queries, and the
// aggregation trigger.
type AnalyticsController struct {
	db        *gorm.DB
	service   *analytics.Service
	forwarder *analytics.Forwarder
}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	cfg := config.Get()
	return &AnalyticsController{
		db:        db,
		service:   analytics.NewService(db),
		forwarder: analytics.NewForwarder(cfg.UmamiURL, cfg.UmamiWebsiteID),
	}
}

type trackRequest struct {
	Path       string `json:"path"`
	PageType   string `json:"pageType"`
	ResourceID string `json:"resourceId"`
	Referrer   string `json:"referrer"`
}

// Track records one page view. Every outcome, accepted or dropped, answers
// 204 so abusive clients learn nothing from the response.
func (a *AnalyticsController) Track(ctx *gin.Context) {
	defer ctx.Status(http.StatusNoContent)

	tenant := middleware.TenantFrom(ctx)
	if tenant == nil {
		return
	}

	ua := ctx.GetHeader("User-Agent")
	if analytics.IsBot(ua) {
		return
	}

	var req trackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return
	}
	if req.Path == "" || len(req.Path) > 500 || !models.ValidPageType(req.PageType) {
		return
	}

	view := models.PageView{
		TenantID:    tenant.ID,
		Path:        req.Path,
		PageType:    req.PageType,
		ResourceID:  req.ResourceID,
		VisitorHash: analytics.VisitorHash(ctx.ClientIP(), ua),
		Referrer:    analytics.CleanReferrer(req.Referrer),
		CreatedAt:   time.Now().UTC(),
	}

	// Fire and forget: the 204 never waits on the insert or the forward.
	host := ctx.Request.Host
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.db.WithContext(bg).Create(&view).Error; err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnw("page view insert failed",
					"tenant", view.TenantID, "path", view.Path, "error", err)
			}
		}
		a.forwarder.Send(bg, view.Path, req.Referrer, host, ua)
	}()
}

// GetSummary returns the analytics summary for the authenticated tenant.
func (a *AnalyticsController) GetSummary(ctx *gin.Context) {
	tenantID := ctx.GetString(middleware.CtxTenantID)

	period := ctx.DefaultQuery("period", "30d")
	if !analytics.ValidPeriod(period) {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid period")
		return
	}
	pageType := ctx.Query("pageType")
	if pageType != "" && !models.ValidPageType(pageType) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid page type")
		return
	}
	resourceID := ctx.Query("resourceId")

	cacheKey := strings.Join([]string{"analytics", tenantID, period, pageType, resourceID}, ":")
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached analytics.Summary
		if err := json.Unmarshal(b, &cached); err == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	summary, err := a.service.Summary(ctx.Request.Context(), tenantID, period, pageType, resourceID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "analytics query failed")
		return
	}

	utils.CacheSetJSON(cacheKey, summary, summaryCacheTTL)
	utils.Success(ctx, summary)
}

// Aggregate runs the rollup job. Protected by a shared secret distinct from
// user auth, for invocation by an external scheduler.
func (a *AnalyticsController) Aggregate(ctx *gin.Context) {
	secret := config.Get().AnalyticsCronSecret
	if secret == "" {
		utils.Error(ctx, http.StatusForbidden, 40302, "aggregation endpoint disabled")
		return
	}

	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "invalid credentials")
		return
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "invalid credentials")
		return
	}

	res, err := analytics.NewAggregator(a.db).Run(ctx.Request.Context())
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("aggregation run failed: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "aggregation failed")
		return
	}
	utils.Success(ctx, res)
}
