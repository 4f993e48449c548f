package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"sitewatch/internal/analytics"
	"sitewatch/internal/timeframe"
	"sitewatch/internal/tracking"
)

const errAnalyticsFetch = "failed to fetch analytics data"

// Metric selectors for the analytics endpoint.
const (
	metricOverview = "overview"
	metricPages    = "pages"
	metricSessions = "sessions"
	metricEvents   = "events"
)

// AnalyticsHandler serves the aggregated dashboard queries.
type AnalyticsHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAnalyticsHandler(db *gorm.DB, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, logger: logger}
}

// Handle computes the requested metric over the trailing window. An absent
// timeRange means the last 7 days; unrecognized values widen to 90 days.
func (h *AnalyticsHandler) Handle(c *fiber.Ctx) error {
	now := time.Now().UTC()
	rng := timeframe.ParseRange(c.Query("timeRange", string(timeframe.RangeLabelLast7Days)), now)
	params := analytics.QueryParams{From: rng.From, To: rng.To}

	metric := c.Query("metric", metricOverview)

	var (
		payload interface{}
		err     error
	)
	switch metric {
	case metricPages:
		payload, err = h.pages(params)
	case metricSessions:
		payload, err = h.sessions(params)
	case metricEvents:
		payload, err = h.events(params)
	default:
		payload, err = h.overview(c, params, now)
	}

	if err != nil {
		h.logger.Error("Failed to compute analytics",
			slog.String("metric", metric),
			slog.String("timeRange", string(rng.Label)),
			slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": errAnalyticsFetch,
		})
	}

	return c.JSON(payload)
}

func (h *AnalyticsHandler) overview(c *fiber.Ctx, params analytics.QueryParams, now time.Time) (interface{}, error) {
	overview, err := analytics.ComputeOverview(c.Context(), h.db, params, now)
	if err != nil {
		return nil, err
	}

	overview.DeviceStats = convertDeviceStats(overview.DeviceStats)
	overview.BrowserStats = convertBrowserStats(overview.BrowserStats)
	overview.GeoStats = convertCountryStats(overview.GeoStats)
	return overview, nil
}

func (h *AnalyticsHandler) pages(params analytics.QueryParams) (interface{}, error) {
	pages, err := analytics.PagesBreakdown(h.db, params)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"pages": pages}, nil
}

func (h *AnalyticsHandler) sessions(params analytics.QueryParams) (interface{}, error) {
	sessions, err := analytics.SessionsInWindow(h.db, params)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"sessions": sessions}, nil
}

func (h *AnalyticsHandler) events(params analytics.QueryParams) (interface{}, error) {
	events, err := analytics.EventsInWindow(h.db, params)
	if err != nil {
		return nil, err
	}
	frequencies, err := analytics.EventTypeFrequency(h.db, params)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"events": events, "eventTypes": frequencies}, nil
}

func convertDeviceStats(items []analytics.MetricCountResult) []analytics.MetricCountResult {
	caser := cases.Title(language.AmericanEnglish)

	result := make([]analytics.MetricCountResult, len(items))
	for i, item := range items {
		result[i] = analytics.MetricCountResult{
			Name:  caser.String(item.Name),
			Count: item.Count,
		}
	}
	return result
}

func convertBrowserStats(items []analytics.MetricCountResult) []analytics.MetricCountResult {
	result := make([]analytics.MetricCountResult, len(items))
	for i, item := range items {
		name := item.Name
		if name == tracking.UnknownBrowser {
			name = "Unknown"
		}
		result[i] = analytics.MetricCountResult{
			Name:  name,
			Count: item.Count,
		}
	}
	return result
}

func convertCountryStats(items []analytics.MetricCountResult) []analytics.MetricCountResult {
	caser := cases.Upper(language.AmericanEnglish)
	countries := gountries.New()

	result := make([]analytics.MetricCountResult, len(items))
	for i, item := range items {
		country, err := countries.FindCountryByAlpha(item.Name)
		if err != nil {
			result[i] = analytics.MetricCountResult{
				Name:  caser.String(item.Name),
				Count: item.Count,
			}
			continue
		}
		result[i] = analytics.MetricCountResult{
			Name:  country.Name.Common,
			Count: item.Count,
		}
	}
	return result
}
