package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID   = "user_id"
	CtxTenantID = "tenant_id"
	CtxRole     = "role"
)

// extractToken pulls the session token from the Authorization header or,
// for browser clients, the auth cookie.
func extractToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := ctx.Cookie(utils.AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware validates the session token and loads the caller's identity
// into the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := extractToken(ctx)
		if token == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
			ctx.Abort()
			return
		}
		if utils.IsTokenBlacklisted(token) {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "token revoked")
			ctx.Abort()
			return
		}
		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(CtxUserID, claims.UserID)
		ctx.Set(CtxTenantID, claims.TenantID)
		ctx.Set(CtxRole, claims.Role)
		ctx.Set("token", token)
		ctx.Next()
	}
}

// RequireSuperAdmin restricts a route to platform operators.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString(CtxRole) != models.RoleSuperAdmin {
			utils.Error(ctx, http.StatusForbidden, 40301, "forbidden")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
