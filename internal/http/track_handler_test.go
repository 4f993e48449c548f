package http_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	sitewatchhttp "sitewatch/internal/http"
	"sitewatch/internal/testsupport"
	"sitewatch/internal/tracking"
)

func newTrackApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testsupport.SetupTestDB(t)
	app := fiber.New()
	handler := sitewatchhttp.NewTrackHandler(db, testsupport.GetLogger())
	app.Post("/api/v1/track", handler.Handle)
	return app, db
}

func TestTrackPageViewWithoutContentType(t *testing.T) {
	app, db := newTrackApp(t)

	// navigator.sendBeacon delivers the payload as text/plain; the handler
	// must parse it anyway.
	body := `{"type":"page_view","data":{"sessionId":"s1","visitorId":"v1","pageUrl":"https://example.com/about","pageTitle":"About"}}`
	req := httptest.NewRequest("POST", "/api/v1/track", strings.NewReader(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session tracking.VisitorSession
	require.NoError(t, db.Where("session_id = ?", "s1").First(&session).Error)
	assert.Equal(t, 1, session.PageViews)
}

func TestTrackMalformedBodyPerformsNoWrites(t *testing.T) {
	app, db := newTrackApp(t)

	req := httptest.NewRequest("POST", "/api/v1/track", strings.NewReader("not json"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var sessions, views, events int64
	require.NoError(t, db.Model(&tracking.VisitorSession{}).Count(&sessions).Error)
	require.NoError(t, db.Model(&tracking.PageView{}).Count(&views).Error)
	require.NoError(t, db.Model(&tracking.UserEvent{}).Count(&events).Error)
	assert.Zero(t, sessions)
	assert.Zero(t, views)
	assert.Zero(t, events)
}

func TestTrackUnknownTypeRejected(t *testing.T) {
	app, _ := newTrackApp(t)

	body := `{"type":"telemetry","data":{}}`
	req := httptest.NewRequest("POST", "/api/v1/track", strings.NewReader(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTrackSessionBeacon(t *testing.T) {
	app, db := newTrackApp(t)

	body := `{"type":"session","data":{"sessionId":"s2","visitorId":"v2","duration":95,"country":"ES","city":"Madrid"}}`
	req := httptest.NewRequest("POST", "/api/v1/track", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session tracking.VisitorSession
	require.NoError(t, db.Where("session_id = ?", "s2").First(&session).Error)
	assert.Equal(t, 95, session.DurationSeconds)
	assert.Equal(t, "ES", session.Country)
}

func TestTrackInteractionBeacon(t *testing.T) {
	app, db := newTrackApp(t)

	body := `{"type":"event","data":{"sessionId":"s3","eventType":"click","eventName":"signup","elementSelector":"#cta","positionX":10,"positionY":20,"eventData":{"plan":"starter"}}}`
	req := httptest.NewRequest("POST", "/api/v1/track", strings.NewReader(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var event tracking.UserEvent
	require.NoError(t, db.Where("session_id = ?", "s3").First(&event).Error)
	assert.Equal(t, "click", event.EventType)
	assert.Equal(t, `{"plan":"starter"}`, event.EventData)
}

func TestTrackMissingSessionIDRejected(t *testing.T) {
	app, _ := newTrackApp(t)

	body := `{"type":"page_view","data":{"visitorId":"v4","pageUrl":"https://example.com/"}}`
	req := httptest.NewRequest("POST", "/api/v1/track", strings.NewReader(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
