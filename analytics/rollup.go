package analytics

import (
	"encoding/json"
	"sort"

	"github.com/jvtipil/unfolde/models"
)

// DailyStat is one per-day/per-path rollup record. It mirrors an
// AnalyticsDaily row so the query layer can treat stored rollups and
// on-the-fly rollups of raw events identically.
type DailyStat struct {
	TenantID       string
	Date           string
	Path           string
	PageType       string
	ResourceID     string
	Views          int64
	UniqueVisitors int64
	ReferrerJSON   string
}

type rollupGroup struct {
	stat      DailyStat
	visitors  map[string]struct{}
	referrers map[string]int64
}

// Rollup groups raw page views by (tenant, date, path), counting views,
// distinct visitor hashes, and a referrer histogram per group. It is the
// single grouping code path shared by the aggregation job and the query
// fallback, so both produce identical numbers for the same input.
func Rollup(views []models.PageView) []DailyStat {
	groups := make(map[string]*rollupGroup)
	order := make([]string, 0)

	for _, v := range views {
		date := DateKey(v.CreatedAt)
		key := v.TenantID + "|" + date + "|" + v.Path
		g, ok := groups[key]
		if !ok {
			g = &rollupGroup{
				stat: DailyStat{
					TenantID:   v.TenantID,
					Date:       date,
					Path:       v.Path,
					PageType:   v.PageType,
					ResourceID: v.ResourceID,
				},
				visitors:  make(map[string]struct{}),
				referrers: make(map[string]int64),
			}
			groups[key] = g
			order = append(order, key)
		}
		g.stat.Views++
		g.visitors[v.VisitorHash] = struct{}{}
		ref := v.Referrer
		if ref == "" {
			ref = DirectSource
		}
		g.referrers[ref]++
	}

	sort.Strings(order)
	stats := make([]DailyStat, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.stat.UniqueVisitors = int64(len(g.visitors))
		// A histogram of plain counts always marshals.
		refs, _ := json.Marshal(g.referrers)
		g.stat.ReferrerJSON = string(refs)
		stats = append(stats, g.stat)
	}
	return stats
}
