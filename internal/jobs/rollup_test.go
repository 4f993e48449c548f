package jobs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitewatch/internal/analytics"
	"sitewatch/internal/jobs"
	"sitewatch/internal/testsupport"
	"sitewatch/internal/timeframe"
	"sitewatch/internal/tracking"
)

func TestRollupDayIsIdempotent(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	today := timeframe.StartOfDay(time.Now().UTC())

	testsupport.CreateSession(t, db, tracking.VisitorSession{
		SessionID: "r1", VisitorID: "alpha", CreatedAt: today.Add(time.Hour),
	})
	testsupport.CreateSession(t, db, tracking.VisitorSession{
		SessionID: "r2", VisitorID: "alpha", CreatedAt: today.Add(2 * time.Hour),
	})
	testsupport.CreatePageView(t, db, tracking.PageView{
		SessionID: "r1", PageURL: "https://example.com/", CreatedAt: today.Add(time.Hour),
	})

	require.NoError(t, jobs.RollupDay(db, logger, today))

	var rollups []tracking.DailyRollup
	require.NoError(t, db.Find(&rollups).Error)
	require.Len(t, rollups, 1)
	assert.Equal(t, 1, rollups[0].UniqueVisitors, "same visitor counts once")
	assert.Equal(t, 1, rollups[0].TotalPageViews)

	// A late beacon folded in by the next pass overwrites the day's row
	// instead of duplicating it.
	testsupport.CreatePageView(t, db, tracking.PageView{
		SessionID: "r2", PageURL: "https://example.com/late", CreatedAt: today.Add(3 * time.Hour),
	})
	require.NoError(t, jobs.RollupDay(db, logger, today))

	rollups = nil
	require.NoError(t, db.Find(&rollups).Error)
	require.Len(t, rollups, 1)
	assert.Equal(t, 2, rollups[0].TotalPageViews)
}

func TestRollupFeedsOverviewDailyStats(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	now := time.Now().UTC()
	today := timeframe.StartOfDay(now)

	testsupport.CreateSession(t, db, tracking.VisitorSession{
		SessionID: "r3", VisitorID: "beta", CreatedAt: today.Add(time.Hour),
	})
	require.NoError(t, jobs.RollupDay(db, logger, today))

	stats, err := analytics.DailyStats(db, analytics.QueryParams{
		From: now.AddDate(0, 0, -7),
		To:   now,
	})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].Visitors)
	assert.Equal(t, today.Format("Jan 2"), stats[0].Date)
}
