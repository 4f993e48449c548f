package analytics

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sitewatch/internal/pkg/async"
)

const overviewWorkers = 4

// Overview is the assembled summary for the overview metric.
type Overview struct {
	TotalVisitors      int64               `json:"totalVisitors"`
	TotalPageViews     int64               `json:"totalPageViews"`
	DailyVisitors      int64               `json:"dailyVisitors"`
	MonthlyVisitors    int64               `json:"monthlyVisitors"`
	AvgSessionDuration float64             `json:"avgSessionDuration"`
	BounceRate         float64             `json:"bounceRate"`
	TopPages           []TopPage           `json:"topPages"`
	DailyStats         []DailyStat         `json:"dailyStats"`
	DeviceStats        []MetricCountResult `json:"deviceStats"`
	BrowserStats       []MetricCountResult `json:"browserStats"`
	GeoStats           []MetricCountResult `json:"geoStats"`
}

// ComputeOverview runs the overview's component queries concurrently on a
// worker pool and assembles the summary. Any query failure fails the whole
// computation.
func ComputeOverview(ctx context.Context, db *gorm.DB, params QueryParams, now time.Time) (*Overview, error) {
	tasks := []async.Task{
		{Name: "totalVisitors", Execute: func() (interface{}, error) {
			return TotalVisitors(db, params)
		}},
		{Name: "totalPageViews", Execute: func() (interface{}, error) {
			return TotalPageViews(db, params)
		}},
		{Name: "dailyVisitors", Execute: func() (interface{}, error) {
			return DailyVisitors(db, now)
		}},
		{Name: "monthlyVisitors", Execute: func() (interface{}, error) {
			return MonthlyVisitors(db, now)
		}},
		{Name: "avgSessionDuration", Execute: func() (interface{}, error) {
			return AvgSessionDuration(db, params)
		}},
		{Name: "bounceRate", Execute: func() (interface{}, error) {
			return BounceRate(db, params)
		}},
		{Name: "topPages", Execute: func() (interface{}, error) {
			return TopPages(db, params)
		}},
		{Name: "dailyStats", Execute: func() (interface{}, error) {
			return DailyStats(db, params)
		}},
		{Name: "deviceStats", Execute: func() (interface{}, error) {
			return DeviceBreakdown(db, params)
		}},
		{Name: "browserStats", Execute: func() (interface{}, error) {
			return BrowserBreakdown(db, params)
		}},
		{Name: "geoStats", Execute: func() (interface{}, error) {
			return CountryBreakdown(db, params)
		}},
	}

	pool := async.NewPool(overviewWorkers)
	results := pool.Execute(ctx, tasks)

	for _, task := range tasks {
		result, ok := results[task.Name]
		if !ok {
			return nil, fmt.Errorf("overview query %s did not complete: %w", task.Name, ctx.Err())
		}
		if result.Err != nil {
			return nil, fmt.Errorf("overview query %s failed: %w", task.Name, result.Err)
		}
	}

	return &Overview{
		TotalVisitors:      results["totalVisitors"].Data.(int64),
		TotalPageViews:     results["totalPageViews"].Data.(int64),
		DailyVisitors:      results["dailyVisitors"].Data.(int64),
		MonthlyVisitors:    results["monthlyVisitors"].Data.(int64),
		AvgSessionDuration: results["avgSessionDuration"].Data.(float64),
		BounceRate:         results["bounceRate"].Data.(float64),
		TopPages:           results["topPages"].Data.([]TopPage),
		DailyStats:         results["dailyStats"].Data.([]DailyStat),
		DeviceStats:        results["deviceStats"].Data.([]MetricCountResult),
		BrowserStats:       results["browserStats"].Data.([]MetricCountResult),
		GeoStats:           results["geoStats"].Data.([]MetricCountResult),
	}, nil
}
