package tracking

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"sitewatch/internal/pkg/sqlitex"
)

// ErrMissingSessionID is returned when a tracking payload carries no session id.
var ErrMissingSessionID = errors.New("missing session id")

// PageViewInput carries a single page-view beacon.
type PageViewInput struct {
	SessionID string `json:"sessionId"`
	VisitorID string `json:"visitorId"`
	PageURL   string `json:"pageUrl"`
	PageTitle string `json:"pageTitle"`
	Referrer  string `json:"referrer"`

	// Request-derived context, filled by the HTTP layer.
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// SessionInput carries a session lifecycle beacon. Fields other than the ids
// are optional; blank values never overwrite what the session already has.
type SessionInput struct {
	SessionID       string `json:"sessionId"`
	VisitorID       string `json:"visitorId"`
	DurationSeconds int    `json:"duration"`
	PageCount       int    `json:"pageCount"`
	DeviceType      string `json:"deviceType"`
	Browser         string `json:"browser"`
	OS              string `json:"os"`
	Country         string `json:"country"`
	City            string `json:"city"`

	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// RecordPageView upserts the visitor session for the beacon and appends a
// page_views row. The session upsert is a single atomic statement so
// concurrent beacons for the same session never lose increments.
//
// The two writes are intentionally separate statements: a failed page-view
// insert leaves the session counter already incremented, and callers treat
// the whole call as failed.
func RecordPageView(db *gorm.DB, logger *slog.Logger, input *PageViewInput) error {
	if input.SessionID == "" {
		return ErrMissingSessionID
	}

	now := time.Now().UTC()
	device, browser, osName := classifyUserAgent(input.UserAgent)
	country, city := lookupGeo(input.IPAddress)

	err := sqlitex.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Exec(`
			INSERT INTO visitor_sessions
				(session_id, visitor_id, page_views, duration_seconds,
				 device, browser, os, country, city, user_agent, created_at, updated_at)
			VALUES (?, ?, 1, 0, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (session_id) DO UPDATE SET
				page_views = visitor_sessions.page_views + 1,
				updated_at = ?`,
			input.SessionID, input.VisitorID,
			device, browser, osName, country, city, input.UserAgent,
			now, now,
			now,
		).Error
	})
	if err != nil {
		logger.Error("Failed to upsert visitor session for page view",
			slog.String("session_id", input.SessionID),
			slog.Any("error", err))
		return err
	}

	view := &PageView{
		SessionID: input.SessionID,
		PageURL:   input.PageURL,
		PageTitle: input.PageTitle,
		PagePath:  DerivePagePath(input.PageURL),
		Referrer:  input.Referrer,
		CreatedAt: now,
	}
	err = sqlitex.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(view).Error
	})
	if err != nil {
		logger.Error("Failed to insert page view",
			slog.String("session_id", input.SessionID),
			slog.Any("error", err))
		return err
	}

	return nil
}

// ApplySessionUpdate upserts a session from a lifecycle beacon. Duration and
// updated_at always take the incoming values; descriptive fields only
// overwrite when the beacon carries a non-blank value, so out-of-order
// beacons cannot blank out enrichment a previous beacon already stored.
// The page-view counter is never touched on update; only page-view beacons
// move it.
func ApplySessionUpdate(db *gorm.DB, logger *slog.Logger, input *SessionInput) error {
	if input.SessionID == "" {
		return ErrMissingSessionID
	}

	now := time.Now().UTC()

	// Effective values: explicit beacon fields win, otherwise derived from
	// the request. Blank means the beacon carried no information at all.
	device, browser, osName := sessionDescriptors(input)
	country, city := sessionGeo(input)

	err := sqlitex.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Exec(`
			INSERT INTO visitor_sessions
				(session_id, visitor_id, page_views, duration_seconds,
				 device, browser, os, country, city, user_agent, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (session_id) DO UPDATE SET
				duration_seconds = excluded.duration_seconds,
				updated_at = excluded.updated_at,
				country = CASE WHEN ? != '' THEN ? ELSE visitor_sessions.country END,
				city = CASE WHEN ? != '' THEN ? ELSE visitor_sessions.city END,
				device = CASE WHEN ? != '' THEN ? ELSE visitor_sessions.device END,
				browser = CASE WHEN ? != '' THEN ? ELSE visitor_sessions.browser END,
				os = CASE WHEN ? != '' THEN ? ELSE visitor_sessions.os END`,
			input.SessionID, input.VisitorID, input.PageCount, input.DurationSeconds,
			defaultIfEmpty(device, DefaultDevice),
			defaultIfEmpty(browser, UnknownBrowser),
			defaultIfEmpty(osName, UnknownOS),
			country, city, input.UserAgent,
			now, now,
			country, country,
			city, city,
			device, device,
			browser, browser,
			osName, osName,
		).Error
	})
	if err != nil {
		logger.Error("Failed to upsert visitor session",
			slog.String("session_id", input.SessionID),
			slog.Any("error", err))
		return err
	}

	return nil
}
