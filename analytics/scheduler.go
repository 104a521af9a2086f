package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/utils"
)

// StartAggregationLoop launches a background goroutine that runs the
// aggregation job on a fixed interval. It is best-effort and logs failures;
// an external cron hitting the aggregate endpoint can replace it by setting
// the interval to zero.
func StartAggregationLoop(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		return
	}
	agg := NewAggregator(db)
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			res, err := agg.Run(ctx)
			cancel()
			if err != nil {
				if utils.Sugar != nil {
					utils.Sugar.Errorf("analytics aggregation failed: %v", err)
				}
				continue
			}
			if res.Upserted > 0 && utils.Sugar != nil {
				utils.Sugar.Infow("analytics aggregation run",
					"upserted", res.Upserted, "deleted", res.Deleted)
			}
		}
	}()
}
