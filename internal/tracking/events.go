package tracking

import (
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"sitewatch/internal/pkg/sqlitex"
)

// InteractionInput carries a user interaction beacon. Attribute and data
// payloads arrive as arbitrary JSON objects and are stored serialized.
type InteractionInput struct {
	SessionID       string          `json:"sessionId"`
	EventType       string          `json:"eventType"`
	EventName       string          `json:"eventName"`
	ElementSelector string          `json:"elementSelector"`
	ElementText     string          `json:"elementText"`
	Attributes      json.RawMessage `json:"elementAttributes"`
	PositionX       int             `json:"positionX"`
	PositionY       int             `json:"positionY"`
	EventData       json.RawMessage `json:"eventData"`
}

// CollectInteraction appends a user event row. Events are accepted even
// when no session row exists for the id yet; the session beacon may arrive
// later or never.
func CollectInteraction(db *gorm.DB, logger *slog.Logger, input *InteractionInput) error {
	if input.SessionID == "" {
		return ErrMissingSessionID
	}

	event := &UserEvent{
		SessionID:         input.SessionID,
		EventType:         input.EventType,
		EventName:         input.EventName,
		ElementSelector:   input.ElementSelector,
		ElementText:       input.ElementText,
		ElementAttributes: rawJSONString(input.Attributes),
		PositionX:         input.PositionX,
		PositionY:         input.PositionY,
		EventData:         rawJSONString(input.EventData),
		CreatedAt:         time.Now().UTC(),
	}

	err := sqlitex.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
	if err != nil {
		logger.Error("Failed to insert user event",
			slog.String("session_id", input.SessionID),
			slog.String("event_type", input.EventType),
			slog.Any("error", err))
		return err
	}

	return nil
}

func rawJSONString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return string(raw)
}
