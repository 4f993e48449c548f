// Package timeframe maps the public timeRange parameter onto concrete
// query windows.
package timeframe

import "time"

// RangeLabel represents the available time range options.
type RangeLabel string

const (
	RangeLabelLast7Days  RangeLabel = "7d"
	RangeLabelLast30Days RangeLabel = "30d"
	RangeLabelLast90Days RangeLabel = "90d"
)

// Range is a half-open query window [From, To) ending now.
type Range struct {
	Label RangeLabel
	Days  int
	From  time.Time
	To    time.Time
}

// ParseRange resolves a timeRange parameter to a window ending at now.
// "7d" and "30d" map to their day counts; anything else, including
// unrecognized values, maps to the 90 day window. Callers substitute the
// 7 day default before parsing when the parameter is absent.
func ParseRange(label string, now time.Time) Range {
	days := 90
	resolved := RangeLabelLast90Days
	switch RangeLabel(label) {
	case RangeLabelLast7Days:
		days = 7
		resolved = RangeLabelLast7Days
	case RangeLabelLast30Days:
		days = 30
		resolved = RangeLabelLast30Days
	}

	return Range{
		Label: resolved,
		Days:  days,
		From:  now.AddDate(0, 0, -days),
		To:    now,
	}
}

// StartOfDay returns midnight UTC of the day containing t.
func StartOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns midnight UTC on the first day of the month
// containing t.
func StartOfMonth(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), 1, 0, 0, 0, 0, time.UTC)
}
