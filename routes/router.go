package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/config"
	"github.com/jvtipil/unfolde/controllers"
	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, store utils.BlobStore) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	accessLogger := utils.NewAccessLogger(cfg)
	r.Use(utils.Ginzap(accessLogger))
	r.Use(utils.RecoveryWithZap(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.TenantHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/media", "./"+cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	analyticsController := controllers.NewAnalyticsController(db)
	tenantController := controllers.NewTenantController(db)
	categoryController := controllers.NewCategoryController(db)
	projectController := controllers.NewProjectController(db)
	pageController := controllers.NewPageController(db)
	mediaController := controllers.NewMediaController(db, store)
	siteController := controllers.NewSiteController(db)

	api := r.Group("/api/v1")

	// Public site surface: tenant resolved from header or host, no auth.
	public := api.Group("")
	public.Use(middleware.ResolveTenant(db))
	public.POST("/track", analyticsController.Track)
	public.GET("/site", siteController.GetSite)
	public.GET("/site/pages/:slug", siteController.GetPage)
	public.GET("/site/projects/:slug", siteController.GetProject)
	api.GET("/featured", siteController.GetFeatured)

	// External scheduler hook, shared-secret protected.
	api.POST("/analytics/aggregate", analyticsController.Aggregate)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/forgot-password", authController.ForgotPassword)
	authGroup.POST("/reset-password", authController.ResetPassword)
	authGroup.GET("/verify-email", authController.VerifyEmail)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthMiddleware(), authController.Logout)
	authGroup.GET("/me", middleware.AuthMiddleware(), authController.Me)
	authGroup.POST("/change-password", middleware.AuthMiddleware(), authController.ChangePassword)
	authGroup.POST("/resend-verification", middleware.AuthMiddleware(), authController.ResendVerification)

	// Tenant admin dashboard.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RateLimitMiddleware())

	admin.GET("/analytics", analyticsController.GetSummary)

	admin.GET("/settings", tenantController.GetSettings)
	admin.PUT("/settings", tenantController.UpdateSettings)

	admin.GET("/categories", categoryController.List)
	admin.POST("/categories", categoryController.Create)
	admin.PUT("/categories/:id", categoryController.Update)
	admin.DELETE("/categories/:id", categoryController.Delete)
	admin.POST("/categories/reorder", categoryController.Reorder)

	admin.GET("/projects", projectController.List)
	admin.GET("/projects/:id", projectController.Get)
	admin.POST("/projects", projectController.Create)
	admin.PUT("/projects/:id", projectController.Update)
	admin.DELETE("/projects/:id", projectController.Delete)
	admin.POST("/projects/reorder", projectController.Reorder)

	admin.GET("/pages", pageController.List)
	admin.GET("/pages/:id", pageController.Get)
	admin.POST("/pages", pageController.Create)
	admin.PUT("/pages/:id", pageController.Update)
	admin.DELETE("/pages/:id", pageController.Delete)
	admin.POST("/pages/reorder", pageController.Reorder)
	admin.GET("/pages/:id/preview", pageController.Preview)

	admin.GET("/media", mediaController.List)
	admin.POST("/media", mediaController.Upload)
	admin.PUT("/media/:id", mediaController.Update)
	admin.DELETE("/media/:id", mediaController.Delete)

	// Platform operator surface.
	platform := api.Group("/platform")
	platform.Use(middleware.AuthMiddleware(), middleware.RequireSuperAdmin())
	platform.GET("/tenants", tenantController.ListTenants)
	platform.PUT("/tenants/:id/featured", tenantController.SetFeatured)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.Status(http.StatusNotFound)
	})

	return r
}
