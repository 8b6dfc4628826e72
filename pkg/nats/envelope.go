package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"notealog/pkg/events"
)

// wireEvent is the JSON body of every message on the bus. Carrying the type
// and time in the body keeps the subscriber independent of subject layout.
type wireEvent struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func encode(event events.Event) ([]byte, error) {
	data, err := json.Marshal(wireEvent{
		Type:       event.EventType(),
		OccurredAt: event.Timestamp(),
		Data:       event.Payload(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}

func decode(raw []byte) (events.BaseEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return events.BaseEvent{}, err
	}
	if w.Type == "" {
		return events.BaseEvent{}, fmt.Errorf("event without type")
	}
	return events.BaseEvent{Type: w.Type, Data: w.Data, OccurredAt: w.OccurredAt}, nil
}

func subjectFor(eventType string) string {
	return fmt.Sprintf("%s.%s", subjectPrefix, eventType)
}
