package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("ANALYTICS_CRON_SECRET", "cron-secret")
	os.Exit(m.Run())
}

// trackContext builds a request context without a database; the rejection
// paths below never reach storage.
func trackContext(body string, ua string, tenant *models.Tenant) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/track", strings.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")
	ctx.Request.Header.Set("User-Agent", ua)
	if tenant != nil {
		ctx.Set(middleware.CtxTenant, tenant)
	}
	return ctx, w
}

func TestTrackAlwaysNoContent(t *testing.T) {
	a := &AnalyticsController{}
	tenant := &models.Tenant{ID: "t1", Slug: "jane"}

	cases := []struct {
		name   string
		body   string
		ua     string
		tenant *models.Tenant
	}{
		{"no tenant", `{"path":"/","pageType":"home"}`, "Mozilla/5.0", nil},
		{"bot agent", `{"path":"/","pageType":"home"}`, "Mozilla/5.0 (compatible; Googlebot/2.1)", tenant},
		{"curl agent", `{"path":"/","pageType":"home"}`, "curl/8.4.0", tenant},
		{"bad json", `{"path":`, "Mozilla/5.0", tenant},
		{"empty path", `{"path":"","pageType":"home"}`, "Mozilla/5.0", tenant},
		{"bad page type", `{"path":"/","pageType":"blog"}`, "Mozilla/5.0", tenant},
		{"oversized path", `{"path":"/` + strings.Repeat("x", 501) + `","pageType":"home"}`, "Mozilla/5.0", tenant},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, w := trackContext(c.body, c.ua, c.tenant)
			a.Track(ctx)
			// The engine flushes gin's buffered status after the handler
			// chain; calling the handler directly requires doing it here.
			ctx.Writer.WriteHeaderNow()
			if w.Code != http.StatusNoContent {
				t.Errorf("status = %d, want 204", w.Code)
			}
			if w.Body.Len() != 0 {
				t.Errorf("body = %q, want empty", w.Body.String())
			}
		})
	}
}

func TestAggregateRequiresSecret(t *testing.T) {
	a := &AnalyticsController{}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer nope", http.StatusUnauthorized},
		{"no bearer prefix", "cron-secret", http.StatusUnauthorized},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/analytics/aggregate", nil)
			if c.header != "" {
				ctx.Request.Header.Set("Authorization", c.header)
			}
			a.Aggregate(ctx)
			if w.Code != c.want {
				t.Errorf("status = %d, want %d", w.Code, c.want)
			}
		})
	}
}

func TestGetSummaryRejectsBadParams(t *testing.T) {
	a := &AnalyticsController{}

	cases := []struct {
		name  string
		query string
	}{
		{"unknown period", "period=365d"},
		{"unknown page type", "period=7d&pageType=blog"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/api/v1/admin/analytics?"+c.query, nil)
			ctx.Set(middleware.CtxTenantID, "t1")
			a.GetSummary(ctx)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
