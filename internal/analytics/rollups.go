package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"sitewatch/internal/timeframe"
)

// DailyStat is one precomputed rollup row of the overview's daily series.
type DailyStat struct {
	Date      string `json:"date"`
	Visitors  int64  `json:"visitors"`
	PageViews int64  `json:"pageViews"`
}

type dailyRollupRow struct {
	Date           time.Time
	UniqueVisitors int64
	TotalPageViews int64
}

// DailyStats reads the daily rollup rows covering the window, oldest
// first, with dates rendered as short labels.
func DailyStats(db *gorm.DB, params QueryParams) ([]DailyStat, error) {
	rows := []dailyRollupRow{}
	err := db.Raw(`
		SELECT date, unique_visitors, total_page_views
		FROM daily_analytics
		WHERE date >= ?
		ORDER BY date ASC`,
		timeframe.StartOfDay(params.From),
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching daily rollups: %w", err)
	}

	results := make([]DailyStat, len(rows))
	for i, row := range rows {
		results[i] = DailyStat{
			Date:      row.Date.UTC().Format("Jan 2"),
			Visitors:  row.UniqueVisitors,
			PageViews: row.TotalPageViews,
		}
	}
	return results, nil
}
