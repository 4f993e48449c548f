package timeframe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sitewatch/internal/timeframe"
)

func TestParseRange(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name         string
		label        string
		expectedDays int
	}{
		{"seven days", "7d", 7},
		{"thirty days", "30d", 30},
		{"ninety days", "90d", 90},
		{"garbage widens to ninety", "foo", 90},
		{"empty widens to ninety", "", 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := timeframe.ParseRange(tt.label, now)
			assert.Equal(t, tt.expectedDays, rng.Days)
			assert.Equal(t, now.AddDate(0, 0, -tt.expectedDays), rng.From)
			assert.Equal(t, now, rng.To)
		})
	}
}

func TestUnrecognizedRangeMatchesNinetyDays(t *testing.T) {
	now := time.Now().UTC()
	assert.Equal(t, timeframe.ParseRange("90d", now).From, timeframe.ParseRange("foo", now).From)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), timeframe.StartOfDay(ts))
}

func TestStartOfMonth(t *testing.T) {
	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), timeframe.StartOfMonth(ts))
}
