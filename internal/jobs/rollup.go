package jobs

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"sitewatch/internal/config"
	"sitewatch/internal/database"
	"sitewatch/internal/pkg/sqlitex"
	"sitewatch/internal/timeframe"
)

// RollupJob recomputes the daily_analytics rows for the trailing backfill
// window from the raw session and page view tables. Re-running for a day
// that already has a row overwrites it, so late-arriving beacons are folded
// in on the next pass.
type RollupJob struct {
	dbManager *database.Manager
	logger    *slog.Logger
	cfg       *config.Config
}

func NewRollupJob(dbManager *database.Manager, logger *slog.Logger, cfg *config.Config) *RollupJob {
	return &RollupJob{
		dbManager: dbManager,
		logger:    logger,
		cfg:       cfg,
	}
}

func (j *RollupJob) Run() error {
	db := j.dbManager.GetConnection()
	today := timeframe.StartOfDay(time.Now().UTC())

	for i := 0; i < j.cfg.RollupBackfillDays; i++ {
		day := today.AddDate(0, 0, -i)
		if err := RollupDay(db, j.logger, day); err != nil {
			j.logger.Error("Failed to roll up day",
				slog.Time("day", day),
				slog.Any("error", err))
			return err
		}
	}
	return nil
}

type dayCounts struct {
	UniqueVisitors int64
	TotalPageViews int64
}

// RollupDay recomputes and upserts the daily_analytics row for one day.
func RollupDay(db *gorm.DB, logger *slog.Logger, day time.Time) error {
	next := day.AddDate(0, 0, 1)

	var counts dayCounts
	err := db.Raw(`
		SELECT
			(SELECT COUNT(DISTINCT visitor_id)
			 FROM visitor_sessions
			 WHERE created_at >= ? AND created_at < ?) AS unique_visitors,
			(SELECT COUNT(*)
			 FROM page_views
			 WHERE created_at >= ? AND created_at < ?) AS total_page_views`,
		day, next, day, next,
	).Scan(&counts).Error
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return sqlitex.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Exec(`
			INSERT INTO daily_analytics
				(date, unique_visitors, total_page_views, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (date) DO UPDATE SET
				unique_visitors = excluded.unique_visitors,
				total_page_views = excluded.total_page_views,
				updated_at = excluded.updated_at`,
			day, counts.UniqueVisitors, counts.TotalPageViews, now, now,
		).Error
	})
}
