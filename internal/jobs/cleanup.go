package jobs

import (
	"log/slog"
	"time"

	"sitewatch/internal/config"
	"sitewatch/internal/database"
	"sitewatch/internal/tracking"
)

// CleanupJob removes raw user events past the retention period. Sessions
// and page views are kept; only the high-volume interaction log is pruned.
type CleanupJob struct {
	dbManager *database.Manager
	logger    *slog.Logger
	cfg       *config.Config
}

func NewCleanupJob(dbManager *database.Manager, logger *slog.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{
		dbManager: dbManager,
		logger:    logger,
		cfg:       cfg,
	}
}

func (j *CleanupJob) Run() error {
	retentionDays := j.cfg.EventsRetentionDays
	db := j.dbManager.GetConnection()
	cutoffDate := time.Now().UTC().AddDate(0, 0, -retentionDays)

	var countToDelete int64
	if err := db.Model(&tracking.UserEvent{}).
		Where("created_at < ?", cutoffDate).
		Count(&countToDelete).Error; err != nil {
		j.logger.Error("Failed to count old user events", slog.Any("error", err))
		return err
	}

	if countToDelete == 0 {
		j.logger.Debug("No old user events to clean up")
		return nil
	}

	// Delete in batches to avoid locking the database for too long
	batchSize := 1000
	totalDeleted := int64(0)

	for {
		result := db.Where("created_at < ?", cutoffDate).
			Limit(batchSize).
			Delete(&tracking.UserEvent{})

		if result.Error != nil {
			j.logger.Error("Failed to delete old user events",
				slog.Any("error", result.Error),
				slog.Int64("deleted_so_far", totalDeleted))
			return result.Error
		}

		totalDeleted += result.RowsAffected

		if result.RowsAffected < int64(batchSize) {
			break
		}

		time.Sleep(100 * time.Millisecond)
	}

	j.logger.Info("Cleaned up old user events",
		slog.Int64("deleted_count", totalDeleted),
		slog.Int("retention_days", retentionDays))

	return nil
}
