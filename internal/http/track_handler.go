package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sitewatch/internal/tracking"
)

const (
	errBadPayload      = "Invalid tracking payload"
	errRecordingFailed = "Failed to record event"
)

// Beacon event type discriminators.
const (
	eventTypePageView = "page_view"
	eventTypeSession  = "session"
	eventTypeEvent    = "event"
)

type trackEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TrackHandler receives client beacons and records them.
type TrackHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewTrackHandler(db *gorm.DB, logger *slog.Logger) *TrackHandler {
	return &TrackHandler{db: db, logger: logger}
}

// Handle records a single beacon. Beacons often arrive without a JSON
// content-type (navigator.sendBeacon sends text/plain), so the body is
// always read raw and parsed as JSON directly.
func (h *TrackHandler) Handle(c *fiber.Ctx) error {
	var envelope trackEnvelope
	if err := json.Unmarshal(c.Body(), &envelope); err != nil {
		h.logger.Debug("Failed to parse tracking payload", slog.Any("error", err))
		return badPayload(c)
	}

	var err error
	switch envelope.Type {
	case eventTypePageView:
		err = h.recordPageView(c, envelope.Data)
	case eventTypeSession:
		err = h.recordSession(c, envelope.Data)
	case eventTypeEvent:
		err = h.recordInteraction(envelope.Data)
	default:
		h.logger.Debug("Unknown tracking event type", slog.String("type", envelope.Type))
		return badPayload(c)
	}

	if err != nil {
		if isPayloadError(err) {
			return badPayload(c)
		}
		h.logger.Error("Failed to record tracking event",
			slog.String("type", envelope.Type),
			slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": errRecordingFailed,
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *TrackHandler) recordPageView(c *fiber.Ctx, data json.RawMessage) error {
	var input tracking.PageViewInput
	if err := json.Unmarshal(data, &input); err != nil {
		return payloadError(err)
	}
	input.UserAgent = c.Get("User-Agent")
	input.IPAddress = getClientIP(c)
	return tracking.RecordPageView(h.db, h.logger, &input)
}

func (h *TrackHandler) recordSession(c *fiber.Ctx, data json.RawMessage) error {
	var input tracking.SessionInput
	if err := json.Unmarshal(data, &input); err != nil {
		return payloadError(err)
	}
	input.UserAgent = c.Get("User-Agent")
	input.IPAddress = getClientIP(c)
	return tracking.ApplySessionUpdate(h.db, h.logger, &input)
}

func (h *TrackHandler) recordInteraction(data json.RawMessage) error {
	var input tracking.InteractionInput
	if err := json.Unmarshal(data, &input); err != nil {
		return payloadError(err)
	}
	return tracking.CollectInteraction(h.db, h.logger, &input)
}

func badPayload(c *fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"error": errBadPayload,
	})
}

type invalidPayloadError struct {
	cause error
}

func (e *invalidPayloadError) Error() string { return "invalid payload: " + e.cause.Error() }
func (e *invalidPayloadError) Unwrap() error { return e.cause }

func payloadError(err error) error {
	return &invalidPayloadError{cause: err}
}

func isPayloadError(err error) bool {
	var payloadErr *invalidPayloadError
	return errors.As(err, &payloadErr) || errors.Is(err, tracking.ErrMissingSessionID)
}
