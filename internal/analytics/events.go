package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EventRow is one raw user event in the events metric.
type EventRow struct {
	SessionID       string    `json:"sessionId"`
	EventType       string    `json:"eventType"`
	EventName       string    `json:"eventName"`
	ElementSelector string    `json:"elementSelector"`
	ElementText     string    `json:"elementText"`
	PositionX       int       `json:"positionX"`
	PositionY       int       `json:"positionY"`
	EventData       string    `json:"eventData"`
	CreatedAt       time.Time `json:"createdAt"`
}

// EventsInWindow returns the window's user events newest first.
func EventsInWindow(db *gorm.DB, params QueryParams) ([]EventRow, error) {
	results := []EventRow{}
	err := db.Raw(`
		SELECT
			session_id, event_type, event_name,
			element_selector, element_text,
			position_x, position_y, event_data, created_at
		FROM user_events
		WHERE created_at >= ? AND created_at <= ?
		ORDER BY created_at DESC`,
		params.From.UTC(), params.To.UTC(),
	).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching events: %w", err)
	}
	return results, nil
}

// EventTypeFrequency tabulates the window's events by type, most frequent
// first.
func EventTypeFrequency(db *gorm.DB, params QueryParams) ([]MetricCountResult, error) {
	results := []MetricCountResult{}
	err := db.Raw(`
		SELECT event_type AS name, COUNT(*) AS count
		FROM user_events
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY event_type
		ORDER BY count DESC`,
		params.From.UTC(), params.To.UTC(),
	).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching event type frequencies: %w", err)
	}
	return results, nil
}
