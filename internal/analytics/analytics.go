// Package analytics computes aggregate statistics over the raw tracking
// tables. Grouping and counting happen in the store's query layer; only
// the already-aggregated rows are loaded into memory.
//
// The package is organized into focused modules:
//   - totals.go: scalar aggregates (visitors, page views, duration, bounce rate)
//   - pages.go: top pages and the per-page breakdown
//   - breakdowns.go: device, browser, and country breakdowns
//   - sessions.go: the raw session listing
//   - events.go: the raw event listing and event type frequencies
//   - rollups.go: precomputed daily rollup rows
//   - overview.go: the fan-out that assembles the overview summary
package analytics

import (
	"time"
)

// MetricCountResult represents a generic key-count pair for query results.
type MetricCountResult struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// QueryParams scopes a query to a trailing window.
type QueryParams struct {
	From time.Time
	To   time.Time
}
