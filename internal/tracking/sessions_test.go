package tracking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitewatch/internal/testsupport"
	"sitewatch/internal/tracking"
)

func TestRecordPageViewCreatesAndIncrementsSession(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	input := &tracking.PageViewInput{
		SessionID: "sess-1",
		VisitorID: "visitor-1",
		PageURL:   "https://example.com/about?ref=nav",
		PageTitle: "About Us",
		Referrer:  "https://example.com/",
	}
	require.NoError(t, tracking.RecordPageView(db, logger, input))

	var sessions []tracking.VisitorSession
	require.NoError(t, db.Find(&sessions).Error)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sess-1", sessions[0].SessionID)
	assert.Equal(t, "visitor-1", sessions[0].VisitorID)
	assert.Equal(t, 1, sessions[0].PageViews)

	// A second view for the same session must not create a duplicate row.
	require.NoError(t, tracking.RecordPageView(db, logger, input))

	sessions = nil
	require.NoError(t, db.Find(&sessions).Error)
	require.Len(t, sessions, 1)
	assert.Equal(t, 2, sessions[0].PageViews)

	var views []tracking.PageView
	require.NoError(t, db.Where("session_id = ?", "sess-1").Find(&views).Error)
	require.Len(t, views, 2)
	assert.Equal(t, "/about", views[0].PagePath)
}

func TestRecordPageViewAppliesUserAgentClassification(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	input := &tracking.PageViewInput{
		SessionID: "sess-ua",
		VisitorID: "visitor-ua",
		PageURL:   "https://example.com/",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
	}
	require.NoError(t, tracking.RecordPageView(db, logger, input))

	var session tracking.VisitorSession
	require.NoError(t, db.Where("session_id = ?", "sess-ua").First(&session).Error)
	assert.Equal(t, "mobile", session.Device)
	assert.Equal(t, "Safari", session.Browser)
	assert.Equal(t, "iOS", session.OS)
}

func TestRecordPageViewWithoutUserAgentUsesDefaults(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	input := &tracking.PageViewInput{
		SessionID: "sess-bare",
		VisitorID: "visitor-bare",
		PageURL:   "/landing",
	}
	require.NoError(t, tracking.RecordPageView(db, logger, input))

	var session tracking.VisitorSession
	require.NoError(t, db.Where("session_id = ?", "sess-bare").First(&session).Error)
	assert.Equal(t, tracking.DefaultDevice, session.Device)
	assert.Equal(t, tracking.UnknownBrowser, session.Browser)
	assert.Equal(t, tracking.UnknownOS, session.OS)
}

func TestApplySessionUpdatePreservesKnownFields(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	first := &tracking.SessionInput{
		SessionID:       "sess-2",
		VisitorID:       "visitor-2",
		DurationSeconds: 10,
		Country:         "CN",
		City:            "Shanghai",
	}
	require.NoError(t, tracking.ApplySessionUpdate(db, logger, first))

	// A later, less informative beacon must not blank out the geo fields,
	// but the duration always takes the latest value.
	second := &tracking.SessionInput{
		SessionID:       "sess-2",
		VisitorID:       "visitor-2",
		DurationSeconds: 42,
	}
	require.NoError(t, tracking.ApplySessionUpdate(db, logger, second))

	var session tracking.VisitorSession
	require.NoError(t, db.Where("session_id = ?", "sess-2").First(&session).Error)
	assert.Equal(t, "CN", session.Country)
	assert.Equal(t, "Shanghai", session.City)
	assert.Equal(t, 42, session.DurationSeconds)
}

func TestApplySessionUpdateOverwritesWithNonBlankValues(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	require.NoError(t, tracking.ApplySessionUpdate(db, logger, &tracking.SessionInput{
		SessionID: "sess-3",
		VisitorID: "visitor-3",
		Country:   "DE",
	}))
	require.NoError(t, tracking.ApplySessionUpdate(db, logger, &tracking.SessionInput{
		SessionID: "sess-3",
		VisitorID: "visitor-3",
		Country:   "FR",
	}))

	var session tracking.VisitorSession
	require.NoError(t, db.Where("session_id = ?", "sess-3").First(&session).Error)
	assert.Equal(t, "FR", session.Country)
}

func TestCountersAreIndependent(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	require.NoError(t, tracking.RecordPageView(db, logger, &tracking.PageViewInput{
		SessionID: "sess-4",
		VisitorID: "visitor-4",
		PageURL:   "https://example.com/",
	}))
	require.NoError(t, tracking.ApplySessionUpdate(db, logger, &tracking.SessionInput{
		SessionID:       "sess-4",
		VisitorID:       "visitor-4",
		DurationSeconds: 30,
	}))

	var session tracking.VisitorSession
	require.NoError(t, db.Where("session_id = ?", "sess-4").First(&session).Error)
	assert.Equal(t, 1, session.PageViews, "session beacon must not touch page_views")
	assert.Equal(t, 30, session.DurationSeconds)

	require.NoError(t, tracking.RecordPageView(db, logger, &tracking.PageViewInput{
		SessionID: "sess-4",
		VisitorID: "visitor-4",
		PageURL:   "https://example.com/next",
	}))

	require.NoError(t, db.Where("session_id = ?", "sess-4").First(&session).Error)
	assert.Equal(t, 2, session.PageViews)
	assert.Equal(t, 30, session.DurationSeconds, "page view beacon must not touch duration")
}

func TestCollectInteractionToleratesOrphanSession(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	require.NoError(t, tracking.CollectInteraction(db, logger, &tracking.InteractionInput{
		SessionID: "sess-never-seen",
		EventType: "click",
		EventName: "cta_button",
		PositionX: 120,
		PositionY: 480,
	}))

	var events []tracking.UserEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "sess-never-seen", events[0].SessionID)

	var sessionCount int64
	require.NoError(t, db.Model(&tracking.VisitorSession{}).Count(&sessionCount).Error)
	assert.Zero(t, sessionCount)
}

func TestMissingSessionIDIsRejected(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	err := tracking.RecordPageView(db, logger, &tracking.PageViewInput{VisitorID: "v"})
	assert.ErrorIs(t, err, tracking.ErrMissingSessionID)

	err = tracking.ApplySessionUpdate(db, logger, &tracking.SessionInput{VisitorID: "v"})
	assert.ErrorIs(t, err, tracking.ErrMissingSessionID)

	err = tracking.CollectInteraction(db, logger, &tracking.InteractionInput{EventType: "click"})
	assert.ErrorIs(t, err, tracking.ErrMissingSessionID)
}
