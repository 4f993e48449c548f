package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SessionSummary is one flattened row of the sessions metric.
type SessionSummary struct {
	SessionID string    `json:"sessionId"`
	VisitorID string    `json:"visitorId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Duration  int       `json:"duration"`
	PageCount int       `json:"pageCount"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
}

// SessionsInWindow returns the window's sessions newest first, reshaped
// into the flat summary field set.
func SessionsInWindow(db *gorm.DB, params QueryParams) ([]SessionSummary, error) {
	results := []SessionSummary{}
	err := db.Raw(`
		SELECT
			session_id,
			visitor_id,
			created_at AS start_time,
			updated_at AS end_time,
			duration_seconds AS duration,
			page_views AS page_count,
			country, city, device, browser, os
		FROM visitor_sessions
		WHERE created_at >= ? AND created_at <= ?
		ORDER BY created_at DESC`,
		params.From.UTC(), params.To.UTC(),
	).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching sessions: %w", err)
	}
	return results, nil
}
