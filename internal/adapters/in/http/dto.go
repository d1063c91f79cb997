package http

import (
	"time"

	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/user"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Location is a latitude/longitude pair in request and response bodies.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) toDomain() (kernel.Location, error) {
	return kernel.NewLocation(l.Latitude, l.Longitude)
}

func locationOf(l kernel.Location) Location {
	return Location{Latitude: l.Latitude(), Longitude: l.Longitude()}
}

// Position is a location with the time it was reported.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

func positionOf(p kernel.Position) *Position {
	if p.IsZero() {
		return nil
	}
	return &Position{
		Latitude:  p.Location().Latitude(),
		Longitude: p.Location().Longitude(),
		Timestamp: p.RecordedAt(),
	}
}

func idOf(id kernel.UUID) string {
	if id.IsZero() {
		return ""
	}
	return id.String()
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email         string    `json:"email"`
	Password      string    `json:"password"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	StoreName     string    `json:"storeName"`
	StoreLocation *Location `json:"storeLocation"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public view of an account. The password hash is never exposed.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	StoreName     string    `json:"storeName,omitempty"`
	StoreLocation *Location `json:"storeLocation,omitempty"`
}

func userOf(u *user.User) User {
	out := User{
		ID:        u.ID().String(),
		Email:     u.Email(),
		Name:      u.Name(),
		Role:      u.Role().String(),
		StoreName: u.StoreName(),
	}
	if !u.StoreLocation().IsZero() {
		loc := locationOf(u.StoreLocation())
		out.StoreLocation = &loc
	}
	return out
}

// AuthResponse carries a bearer token and the signed-in user.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// NewOrder is the body of POST /api/orders.
type NewOrder struct {
	VendorID         openapi_types.UUID `json:"vendorId"`
	PickupLocation   Location           `json:"pickupLocation"`
	DeliveryLocation Location           `json:"deliveryLocation"`
}

// AssignRequest is the body of PATCH /api/orders/{orderId}/assign.
type AssignRequest struct {
	DeliveryPartnerID openapi_types.UUID `json:"deliveryPartnerId"`
}

// StatusRequest is the body of PATCH /api/orders/{orderId}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// Order is the response shape of every order endpoint.
type Order struct {
	ID                string    `json:"id"`
	CustomerID        string    `json:"customerId"`
	VendorID          string    `json:"vendorId"`
	DeliveryPartnerID string    `json:"deliveryPartnerId,omitempty"`
	Status            string    `json:"status"`
	PickupLocation    Location  `json:"pickupLocation"`
	DeliveryLocation  Location  `json:"deliveryLocation"`
	CurrentLocation   *Position `json:"currentLocation,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func orderOf(o *order.Order) Order {
	return Order{
		ID:                o.ID().String(),
		CustomerID:        o.CustomerID().String(),
		VendorID:          o.VendorID().String(),
		DeliveryPartnerID: idOf(o.DeliveryPartnerID()),
		Status:            o.Status().String(),
		PickupLocation:    locationOf(o.Pickup()),
		DeliveryLocation:  locationOf(o.Delivery()),
		CurrentLocation:   positionOf(o.CurrentPosition()),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

func orderViewOf(v queries.OrderView) Order {
	return Order{
		ID:                v.ID.String(),
		CustomerID:        v.CustomerID.String(),
		VendorID:          v.VendorID.String(),
		DeliveryPartnerID: idOf(v.DeliveryPartnerID),
		Status:            v.Status.String(),
		PickupLocation:    locationOf(v.Pickup),
		DeliveryLocation:  locationOf(v.Delivery),
		CurrentLocation:   positionOf(v.Current),
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

// Partner is one entry of GET /api/partners/available.
type Partner struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	LastPosition *Position `json:"lastPosition,omitempty"`
}

// LocationReport is the body of a REST location report.
type LocationReport struct {
	OrderID   *openapi_types.UUID `json:"orderId"`
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
}

// LocationAccepted echoes a stored report. RemainingMeters is absent without a current order.
type LocationAccepted struct {
	OrderID         string    `json:"orderId,omitempty"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Timestamp       time.Time `json:"timestamp"`
	RemainingMeters *float64  `json:"remainingMeters,omitempty"`
}

// PartnerLocation is the response of GET /api/location/{partnerId}.
type PartnerLocation struct {
	PartnerID      string    `json:"partnerId"`
	CurrentOrderID string    `json:"currentOrderId,omitempty"`
	Position       *Position `json:"position,omitempty"`
}
