package tracking

import (
	"time"

	"tracking/internal/core/domain/model/kernel"
)

// Outbound event types as they appear in the "type" field of a frame.
const (
	EventLocationUpdated    = "location-updated"
	EventOrderStatusUpdated = "order-status-updated"
)

// Event is one message for the subscribers of OrderID. Data is marshalled as
// the frame's "data" field; after a relay hop it holds the raw JSON received.
type Event struct {
	Type    string
	OrderID kernel.UUID
	Data    any
}

// LocationUpdated is the payload of a location-updated event.
type LocationUpdated struct {
	OrderID         string    `json:"orderId"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Timestamp       time.Time `json:"timestamp"`
	RemainingMeters float64   `json:"remainingMeters"`
}

// OrderStatusUpdated is the payload of an order-status-updated event.
type OrderStatusUpdated struct {
	OrderID           string    `json:"orderId"`
	Status            string    `json:"status"`
	DeliveryPartnerID string    `json:"deliveryPartnerId,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

func newLocationEvent(orderID kernel.UUID, pos kernel.Position, remaining float64) Event {
	return Event{
		Type:    EventLocationUpdated,
		OrderID: orderID,
		Data: LocationUpdated{
			OrderID:         orderID.String(),
			Latitude:        pos.Location().Latitude(),
			Longitude:       pos.Location().Longitude(),
			Timestamp:       pos.RecordedAt(),
			RemainingMeters: remaining,
		},
	}
}
