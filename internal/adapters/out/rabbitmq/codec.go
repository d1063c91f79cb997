package rabbitmq

import (
	"encoding/json"
	"fmt"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/tracking"
)

type wireEvent struct {
	Type    string          `json:"type"`
	OrderID string          `json:"orderId"`
	Data    json.RawMessage `json:"data"`
}

func encodeEvent(ev tracking.Event) ([]byte, error) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, fmt.Errorf("encode %s data: %w", ev.Type, err)
	}
	return json.Marshal(wireEvent{Type: ev.Type, OrderID: ev.OrderID.String(), Data: data})
}

// decodeEvent keeps Data as raw JSON; the WebSocket hub writes it unchanged.
func decodeEvent(body []byte) (tracking.Event, error) {
	var w wireEvent
	if err := json.Unmarshal(body, &w); err != nil {
		return tracking.Event{}, fmt.Errorf("decode event: %w", err)
	}
	if w.Type == "" {
		return tracking.Event{}, fmt.Errorf("decode event: missing type")
	}
	orderID, err := kernel.UUIDFromString(w.OrderID)
	if err != nil {
		return tracking.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return tracking.Event{Type: w.Type, OrderID: orderID, Data: w.Data}, nil
}
