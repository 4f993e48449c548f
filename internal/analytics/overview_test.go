package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitewatch/internal/analytics"
	"sitewatch/internal/testsupport"
	"sitewatch/internal/timeframe"
	"sitewatch/internal/tracking"
)

func TestComputeOverviewAssemblesAllFields(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	now := time.Now().UTC()
	params := windowAround(now, 7)

	testsupport.CreateSession(t, db, tracking.VisitorSession{
		SessionID: "ov-s1", VisitorID: "alpha",
		PageViews: 1, DurationSeconds: 60,
		Device: "desktop", Browser: "Chrome", Country: "US",
		CreatedAt: now.Add(-time.Hour),
	})
	testsupport.CreateSession(t, db, tracking.VisitorSession{
		SessionID: "ov-s2", VisitorID: "beta",
		PageViews: 3, DurationSeconds: 120,
		Device: "mobile", Browser: "Safari", Country: "DE",
		CreatedAt: now.Add(-2 * time.Hour),
	})
	for _, url := range []string{"https://example.com/", "https://example.com/", "https://example.com/about"} {
		testsupport.CreatePageView(t, db, tracking.PageView{
			SessionID: "ov-s2", PageURL: url, CreatedAt: now.Add(-time.Hour),
		})
	}
	testsupport.CreateRollup(t, db, tracking.DailyRollup{
		Date:           timeframe.StartOfDay(now),
		UniqueVisitors: 2,
		TotalPageViews: 3,
	})

	overview, err := analytics.ComputeOverview(context.Background(), db, params, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), overview.TotalVisitors)
	assert.Equal(t, int64(3), overview.TotalPageViews)
	assert.Equal(t, int64(2), overview.DailyVisitors)
	assert.Equal(t, int64(2), overview.MonthlyVisitors)
	assert.Equal(t, float64(90), overview.AvgSessionDuration)
	assert.Equal(t, float64(50), overview.BounceRate)

	require.Len(t, overview.TopPages, 2)
	assert.Equal(t, "https://example.com/", overview.TopPages[0].Page)
	assert.Equal(t, int64(2), overview.TopPages[0].Views)

	require.Len(t, overview.DailyStats, 1)
	assert.Equal(t, int64(2), overview.DailyStats[0].Visitors)
	assert.Equal(t, int64(3), overview.DailyStats[0].PageViews)

	assert.Len(t, overview.DeviceStats, 2)
	assert.Len(t, overview.BrowserStats, 2)
	assert.Len(t, overview.GeoStats, 2)
}

func TestComputeOverviewEmptyWindow(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	now := time.Now().UTC()

	overview, err := analytics.ComputeOverview(context.Background(), db, windowAround(now, 7), now)
	require.NoError(t, err)

	assert.Zero(t, overview.TotalVisitors)
	assert.Zero(t, overview.TotalPageViews)
	assert.Zero(t, overview.BounceRate)
	assert.Zero(t, overview.AvgSessionDuration)
	assert.Empty(t, overview.TopPages)
	assert.Empty(t, overview.DailyStats)
	assert.Empty(t, overview.DeviceStats)
}
