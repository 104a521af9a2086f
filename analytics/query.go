package analytics

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

// Summary limits.
const (
	maxReferrers = 15
	maxTopPages  = 20
)

// ReferrerCount is one referrer source with its view count.
type ReferrerCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// PageCount is one path with accumulated views and daily uniques.
type PageCount struct {
	Path     string `json:"path"`
	Views    int64  `json:"views"`
	Uniques  int64  `json:"uniques"`
	PageType string `json:"page_type"`
}

// TimePoint is one day in the chronological series.
type TimePoint struct {
	Date    string `json:"date"`
	Views   int64  `json:"views"`
	Uniques int64  `json:"uniques"`
}

// Summary is the tenant-facing analytics answer for one period.
// TotalUniques sums daily distinct-visitor counts: a visitor active on three
// days counts three times. That approximation is part of the data contract.
type Summary struct {
	Period       string          `json:"period"`
	TotalViews   int64           `json:"total_views"`
	TotalUniques int64           `json:"total_uniques"`
	Referrers    []ReferrerCount `json:"referrers"`
	TopPages     []PageCount     `json:"top_pages"`
	TimeSeries   []TimePoint     `json:"time_series"`
}

// Service answers analytics queries from pre-aggregated daily rows, falling
// back to an in-memory rollup of raw events that the aggregation job has not
// consumed yet.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Summary computes the analytics summary for one tenant and period.
// pageType and resourceID are optional filters.
func (s *Service) Summary(ctx context.Context, tenantID, period, pageType, resourceID string) (*Summary, error) {
	since := PeriodStart(period)

	q := s.db.WithContext(ctx).
		Where("tenant_id = ? AND date >= ?", tenantID, DateKey(since))
	if pageType != "" {
		q = q.Where("page_type = ?", pageType)
	}
	if resourceID != "" {
		q = q.Where("resource_id = ?", resourceID)
	}

	var rows []models.AnalyticsDaily
	if err := q.Order("date asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	var stats []DailyStat
	if len(rows) > 0 {
		stats = make([]DailyStat, 0, len(rows))
		for _, r := range rows {
			stats = append(stats, DailyStat{
				TenantID:       r.TenantID,
				Date:           r.Date,
				Path:           r.Path,
				PageType:       r.PageType,
				ResourceID:     r.ResourceID,
				Views:          r.Views,
				UniqueVisitors: r.UniqueVisitors,
				ReferrerJSON:   r.ReferrerJSON,
			})
		}
	} else {
		// Nothing rolled up for this window yet; derive the same record
		// shape from raw events.
		raw, err := s.rawViews(ctx, tenantID, since, pageType, resourceID)
		if err != nil {
			return nil, err
		}
		stats = Rollup(raw)
	}

	return Summarize(period, stats), nil
}

func (s *Service) rawViews(ctx context.Context, tenantID string, since time.Time, pageType, resourceID string) ([]models.PageView, error) {
	q := s.db.WithContext(ctx).
		Where("tenant_id = ? AND created_at >= ?", tenantID, since)
	if pageType != "" {
		q = q.Where("page_type = ?", pageType)
	}
	if resourceID != "" {
		q = q.Where("resource_id = ?", resourceID)
	}
	var raw []models.PageView
	if err := q.Order("created_at asc").Find(&raw).Error; err != nil {
		return nil, err
	}
	return raw, nil
}

// Summarize folds day-level records into totals, top referrers, top pages,
// and a chronological series. A record with malformed referrer JSON still
// contributes its views and uniques; only its referrer histogram is skipped.
func Summarize(period string, stats []DailyStat) *Summary {
	sum := &Summary{
		Period:     period,
		Referrers:  []ReferrerCount{},
		TopPages:   []PageCount{},
		TimeSeries: []TimePoint{},
	}

	refTotals := map[string]int64{}
	pageTotals := map[string]*PageCount{}
	dayTotals := map[string]*TimePoint{}

	for _, d := range stats {
		sum.TotalViews += d.Views
		sum.TotalUniques += d.UniqueVisitors

		if d.ReferrerJSON != "" {
			var refs map[string]int64
			if err := json.Unmarshal([]byte(d.ReferrerJSON), &refs); err != nil {
				if utils.Sugar != nil {
					utils.Sugar.Warnw("referrer json parse failed", "date", d.Date, "path", d.Path, "error", err)
				}
			} else {
				for source, count := range refs {
					refTotals[source] += count
				}
			}
		}

		p, ok := pageTotals[d.Path]
		if !ok {
			p = &PageCount{Path: d.Path, PageType: d.PageType}
			pageTotals[d.Path] = p
		}
		p.Views += d.Views
		p.Uniques += d.UniqueVisitors

		t, ok := dayTotals[d.Date]
		if !ok {
			t = &TimePoint{Date: d.Date}
			dayTotals[d.Date] = t
		}
		t.Views += d.Views
		t.Uniques += d.UniqueVisitors
	}

	for source, count := range refTotals {
		sum.Referrers = append(sum.Referrers, ReferrerCount{Source: source, Count: count})
	}
	sort.Slice(sum.Referrers, func(i, j int) bool {
		if sum.Referrers[i].Count != sum.Referrers[j].Count {
			return sum.Referrers[i].Count > sum.Referrers[j].Count
		}
		return sum.Referrers[i].Source < sum.Referrers[j].Source
	})
	if len(sum.Referrers) > maxReferrers {
		sum.Referrers = sum.Referrers[:maxReferrers]
	}

	for _, p := range pageTotals {
		sum.TopPages = append(sum.TopPages, *p)
	}
	sort.Slice(sum.TopPages, func(i, j int) bool {
		if sum.TopPages[i].Views != sum.TopPages[j].Views {
			return sum.TopPages[i].Views > sum.TopPages[j].Views
		}
		return sum.TopPages[i].Path < sum.TopPages[j].Path
	})
	if len(sum.TopPages) > maxTopPages {
		sum.TopPages = sum.TopPages[:maxTopPages]
	}

	for _, t := range dayTotals {
		sum.TimeSeries = append(sum.TimeSeries, *t)
	}
	sort.Slice(sum.TimeSeries, func(i, j int) bool {
		return sum.TimeSeries[i].Date < sum.TimeSeries[j].Date
	})

	return sum
}
