package analytics

import (
	"fmt"

	"gorm.io/gorm"
)

const topPagesLimit = 10

// TopPage is one entry of the overview's most-viewed pages list.
type TopPage struct {
	Page  string `json:"page"`
	Views int64  `json:"views"`
}

// PageBreakdown is one entry of the pages metric.
type PageBreakdown struct {
	PageURL        string `json:"pageUrl"`
	Views          int64  `json:"views"`
	UniqueVisitors int64  `json:"uniqueVisitors"`
}

// TopPages returns the ten most viewed pages in the window, sorted
// descending by view count.
func TopPages(db *gorm.DB, params QueryParams) ([]TopPage, error) {
	results := []TopPage{}
	err := db.Raw(`
		SELECT page_url AS page, COUNT(*) AS views
		FROM page_views
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY page_url
		ORDER BY views DESC
		LIMIT ?`,
		params.From.UTC(), params.To.UTC(), topPagesLimit,
	).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching top pages: %w", err)
	}
	return results, nil
}

// PagesBreakdown groups the window's page views by URL with per-page view
// and distinct-visitor counts, sorted descending by views. Page views whose
// session never materialized contribute views but no visitors.
func PagesBreakdown(db *gorm.DB, params QueryParams) ([]PageBreakdown, error) {
	results := []PageBreakdown{}
	err := db.Raw(`
		SELECT
			pv.page_url AS page_url,
			COUNT(*) AS views,
			COUNT(DISTINCT vs.visitor_id) AS unique_visitors
		FROM page_views pv
		LEFT JOIN visitor_sessions vs ON vs.session_id = pv.session_id
		WHERE pv.created_at >= ? AND pv.created_at <= ?
		GROUP BY pv.page_url
		ORDER BY views DESC`,
		params.From.UTC(), params.To.UTC(),
	).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching pages breakdown: %w", err)
	}
	return results, nil
}
