package ws

import (
	"encoding/json"

	"tracking/internal/pkg/errs"
)

// Inbound frame types.
const (
	typeTrackOrder     = "track-order"
	typeLeaveOrder     = "leave-order"
	typeLocationUpdate = "location-update"
)

// Outbound frame types besides the tracking events.
const (
	typeTracking = "tracking"
	typeLeft     = "left"
	typeError    = "error"
)

// envelope is the shape of every frame in both directions.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type orderRef struct {
	OrderID string `json:"orderId"`
}

type locationUpdate struct {
	OrderID   string   `json:"orderId"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type trackingAck struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type errorFrame struct {
	Type  string    `json:"type"`
	Error string    `json:"error"`
	Kind  errs.Kind `json:"kind"`
}

func encode(typ string, data any) ([]byte, error) {
	return json.Marshal(outbound{Type: typ, Data: data})
}

// encodeError hides internal failure details from the client.
func encodeError(err error) []byte {
	kind := errs.KindOf(err)
	msg := err.Error()
	if kind == errs.KindInternal {
		msg = "internal error"
	}
	b, _ := json.Marshal(errorFrame{Type: typeError, Error: msg, Kind: kind})
	return b
}
