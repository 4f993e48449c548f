package analytics

import (
	"fmt"

	"gorm.io/gorm"
)

// breakdownByColumn tabulates distinct visitors per value of a session
// column. The column name is always one of the fixed callers' literals,
// never user input.
func breakdownByColumn(db *gorm.DB, params QueryParams, column string) ([]MetricCountResult, error) {
	results := []MetricCountResult{}
	query := fmt.Sprintf(`
		SELECT %s AS name, COUNT(DISTINCT visitor_id) AS count
		FROM visitor_sessions
		WHERE created_at >= ? AND created_at <= ?
		  AND %s != ''
		GROUP BY %s
		ORDER BY count DESC`, column, column, column)

	err := db.Raw(query, params.From.UTC(), params.To.UTC()).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching %s breakdown: %w", column, err)
	}
	return results, nil
}

// DeviceBreakdown tabulates visitors by device class for the window.
func DeviceBreakdown(db *gorm.DB, params QueryParams) ([]MetricCountResult, error) {
	return breakdownByColumn(db, params, "device")
}

// BrowserBreakdown tabulates visitors by browser for the window.
func BrowserBreakdown(db *gorm.DB, params QueryParams) ([]MetricCountResult, error) {
	return breakdownByColumn(db, params, "browser")
}

// CountryBreakdown tabulates visitors by ISO country code for the window.
// Sessions without geo data are excluded.
func CountryBreakdown(db *gorm.DB, params QueryParams) ([]MetricCountResult, error) {
	return breakdownByColumn(db, params, "country")
}
