package main

import (
	"time"

	"github.com/jvtipil/unfolde/analytics"
	"github.com/jvtipil/unfolde/config"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/routes"
	"github.com/jvtipil/unfolde/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	analytics.SetSalt(cfg.AnalyticsSalt)

	db := config.InitDatabase(
		&models.Tenant{},
		&models.User{},
		&models.Category{},
		&models.Project{},
		&models.Media{},
		&models.Page{},
		&models.PageView{},
		&models.AnalyticsDaily{},
	)

	store := utils.NewDiskStore(cfg.UploadDir, cfg.MediaBaseURL)
	r := routes.SetupRouter(db, store)

	// In-process rollup loop; set the interval to zero when an external cron
	// drives the aggregate endpoint instead.
	if cfg.AggregateIntervalMinutes > 0 {
		analytics.StartAggregationLoop(db, time.Duration(cfg.AggregateIntervalMinutes)*time.Minute)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
