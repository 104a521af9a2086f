package middleware

import (
	"encoding/json"
	"net"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/config"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

// TenantHeader identifies the tenant on API calls from the public site.
const TenantHeader = "X-Tenant-Slug"

// CtxTenant holds the resolved *models.Tenant for public-site requests.
const CtxTenant = "tenant"

const tenantCacheTTL = time.Minute

// ResolveTenant looks up the tenant for a public request: the explicit slug
// header wins, otherwise the Host is matched against a subdomain of the base
// domain or a tenant's custom domain. Resolution failure does not abort; the
// handler decides how to respond to an unknown tenant.
func ResolveTenant(db *gorm.DB) gin.HandlerFunc {
	base := config.Get().BaseDomain
	return func(ctx *gin.Context) {
		slug := strings.TrimSpace(ctx.GetHeader(TenantHeader))
		host := hostOnly(ctx.Request.Host)

		var tenant *models.Tenant
		if slug != "" {
			tenant = findTenant(db, "slug", slug)
		} else if sub := subdomainOf(host, base); sub != "" {
			tenant = findTenant(db, "slug", sub)
		} else if host != "" && host != base {
			tenant = findTenant(db, "domain", host)
		}

		if tenant != nil {
			ctx.Set(CtxTenant, tenant)
		}
		ctx.Next()
	}
}

// TenantFrom returns the tenant resolved for this request, if any.
func TenantFrom(ctx *gin.Context) *models.Tenant {
	if v, ok := ctx.Get(CtxTenant); ok {
		if t, ok := v.(*models.Tenant); ok {
			return t
		}
	}
	return nil
}

func findTenant(db *gorm.DB, field, value string) *models.Tenant {
	cacheKey := "tenant:" + field + ":" + value
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var t models.Tenant
		if err := json.Unmarshal(b, &t); err == nil && t.ID != "" {
			return &t
		}
	}

	var t models.Tenant
	if err := db.Where(field+" = ?", value).First(&t).Error; err != nil {
		return nil
	}
	utils.CacheSetJSON(cacheKey, t, tenantCacheTTL)
	return &t
}

func hostOnly(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return strings.ToLower(h)
	}
	return strings.ToLower(host)
}

// subdomainOf returns the left-most label when host is a direct subdomain of
// base, e.g. "jane.unfolde.com" with base "unfolde.com" yields "jane".
func subdomainOf(host, base string) string {
	if base == "" || !strings.HasSuffix(host, "."+base) {
		return ""
	}
	prefix := strings.TrimSuffix(host, "."+base)
	if prefix == "" || strings.Contains(prefix, ".") {
		return ""
	}
	if prefix == "www" {
		return ""
	}
	return prefix
}
