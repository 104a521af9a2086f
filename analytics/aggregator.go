package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jvtipil/unfolde/models"
)

// AggregationWindow is how long raw events stay un-aggregated. Only events
// whose day has fully elapsed are rolled up, so a day's uniqueVisitors count
// is computed from the complete day.
const AggregationWindow = 24 * time.Hour

// AggregateResult reports what one aggregation run touched.
type AggregateResult struct {
	Upserted int64 `json:"upserted"`
	Deleted  int64 `json:"deleted"`
}

// Aggregator rolls raw PageView rows into AnalyticsDaily rows.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Run aggregates raw page views older than the cutoff and deletes them.
//
// The upsert adds views to an existing row's counter but replaces
// uniqueVisitors and referrerJson with the newly computed values. That
// asymmetry matches the stored data this system inherits: a day aggregated
// across multiple runs keeps an exact views counter while uniques reflect the
// latest run only. Deletion runs last, against the same cutoff predicate, so
// each raw row is aggregated at most once; a crash before the delete causes
// one re-aggregation of the same rows on the next run.
func (a *Aggregator) Run(ctx context.Context) (AggregateResult, error) {
	var res AggregateResult
	cutoff := time.Now().UTC().Add(-AggregationWindow)

	var raw []models.PageView
	if err := a.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Find(&raw).Error; err != nil {
		return res, err
	}
	if len(raw) == 0 {
		return res, nil
	}

	for _, s := range Rollup(raw) {
		row := models.AnalyticsDaily{
			TenantID:       s.TenantID,
			Date:           s.Date,
			Path:           s.Path,
			PageType:       s.PageType,
			ResourceID:     s.ResourceID,
			Views:          s.Views,
			UniqueVisitors: s.UniqueVisitors,
			ReferrerJSON:   s.ReferrerJSON,
		}
		// Atomic insert-or-update keyed by (tenant_id, date, path).
		err := a.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"views":           gorm.Expr("views + ?", s.Views),
				"unique_visitors": s.UniqueVisitors,
				"referrer_json":   s.ReferrerJSON,
				"updated_at":      time.Now().UTC(),
			}),
		}).Create(&row).Error
		if err != nil {
			// Hard failure: raw rows are still intact, the next run
			// re-aggregates them.
			return res, err
		}
		res.Upserted++
	}

	del := a.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.PageView{})
	if del.Error != nil {
		return res, del.Error
	}
	res.Deleted = del.RowsAffected
	return res, nil
}
