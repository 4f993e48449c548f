package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"sitewatch/internal/timeframe"
)

// TotalVisitors returns the number of distinct visitors whose sessions
// started inside the window.
func TotalVisitors(db *gorm.DB, params QueryParams) (int64, error) {
	var count int64
	err := db.Raw(`
		SELECT COUNT(DISTINCT visitor_id)
		FROM visitor_sessions
		WHERE created_at >= ? AND created_at <= ?`,
		params.From.UTC(), params.To.UTC(),
	).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting visitors: %w", err)
	}
	return count, nil
}

// TotalPageViews returns the number of page views recorded inside the window.
func TotalPageViews(db *gorm.DB, params QueryParams) (int64, error) {
	var count int64
	err := db.Raw(`
		SELECT COUNT(*)
		FROM page_views
		WHERE created_at >= ? AND created_at <= ?`,
		params.From.UTC(), params.To.UTC(),
	).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting page views: %w", err)
	}
	return count, nil
}

// VisitorsSince returns distinct visitors with sessions created at or after
// the given instant. Used for the today and current-month figures.
func VisitorsSince(db *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := db.Raw(`
		SELECT COUNT(DISTINCT visitor_id)
		FROM visitor_sessions
		WHERE created_at >= ?`,
		since.UTC(),
	).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting visitors since %s: %w",
			since.Format(time.RFC3339), err)
	}
	return count, nil
}

// DailyVisitors returns distinct visitors whose sessions started today.
func DailyVisitors(db *gorm.DB, now time.Time) (int64, error) {
	return VisitorsSince(db, timeframe.StartOfDay(now))
}

// MonthlyVisitors returns distinct visitors whose sessions started in the
// current calendar month.
func MonthlyVisitors(db *gorm.DB, now time.Time) (int64, error) {
	return VisitorsSince(db, timeframe.StartOfMonth(now))
}

// AvgSessionDuration returns the mean duration in seconds over sessions
// with a positive duration. Sessions with zero or missing duration are
// excluded from the denominator, not treated as zero.
func AvgSessionDuration(db *gorm.DB, params QueryParams) (float64, error) {
	var avg float64
	err := db.Raw(`
		SELECT COALESCE(AVG(duration_seconds), 0)
		FROM visitor_sessions
		WHERE created_at >= ? AND created_at <= ?
		  AND duration_seconds > 0`,
		params.From.UTC(), params.To.UTC(),
	).Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("error computing average session duration: %w", err)
	}
	return avg, nil
}

type bounceCounts struct {
	Total   int64
	Bounced int64
}

// BounceRate returns the share of single-page-view sessions in the window
// as a percentage. Zero when the window has no sessions.
func BounceRate(db *gorm.DB, params QueryParams) (float64, error) {
	var counts bounceCounts
	err := db.Raw(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN page_views = 1 THEN 1 ELSE 0 END), 0) AS bounced
		FROM visitor_sessions
		WHERE created_at >= ? AND created_at <= ?`,
		params.From.UTC(), params.To.UTC(),
	).Scan(&counts).Error
	if err != nil {
		return 0, fmt.Errorf("error computing bounce rate: %w", err)
	}
	if counts.Total == 0 {
		return 0, nil
	}
	return float64(counts.Bounced) / float64(counts.Total) * 100, nil
}
