// Package orderrepo stores Order aggregates in the orders table and maps rows
// back into validated domain objects.
package orderrepo

import (
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is one row of the orders table. Location pairs are embedded as
// prefixed latitude/longitude columns.
type OrderDTO struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey"`
	CustomerID        uuid.UUID   `gorm:"type:uuid;index;not null"`
	VendorID          uuid.UUID   `gorm:"type:uuid;index;not null"`
	DeliveryPartnerID *uuid.UUID  `gorm:"type:uuid;index"`
	Status            string      `gorm:"size:16;index;not null"`
	Pickup            LocationDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery          LocationDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	Current           PositionDTO `gorm:"embedded;embeddedPrefix:current_"`
	CreatedAt         time.Time   `gorm:"autoCreateTime:false;index"`
	UpdatedAt         time.Time   `gorm:"autoUpdateTime:false"`
}

// TableName overrides the gorm table name.
func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO is a required location.
type LocationDTO struct {
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
}

// PositionDTO is nullable as a whole: all three columns are set or none is.
type PositionDTO struct {
	Latitude   *float64
	Longitude  *float64
	RecordedAt *time.Time
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:         o.ID().Bytes(),
		CustomerID: o.CustomerID().Bytes(),
		VendorID:   o.VendorID().Bytes(),
		Status:     o.Status().String(),
		Pickup:     locationFromDomain(o.Pickup()),
		Delivery:   locationFromDomain(o.Delivery()),
		Current:    positionFromDomain(o.CurrentPosition()),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
	if o.HasPartner() {
		partnerID := o.DeliveryPartnerID().Bytes()
		dto.DeliveryPartnerID = &partnerID
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewLocation(dto.Pickup.Latitude, dto.Pickup.Longitude)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewLocation(dto.Delivery.Latitude, dto.Delivery.Longitude)
	if err != nil {
		return nil, err
	}
	current, err := dto.Current.toDomain()
	if err != nil {
		return nil, err
	}

	var partnerID kernel.UUID
	if dto.DeliveryPartnerID != nil {
		partnerID = kernel.UUIDFrom(*dto.DeliveryPartnerID)
	}

	return order.RestoreOrder(
		kernel.UUIDFrom(dto.ID),
		kernel.UUIDFrom(dto.CustomerID),
		kernel.UUIDFrom(dto.VendorID),
		partnerID,
		status,
		pickup,
		delivery,
		current,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func locationFromDomain(l kernel.Location) LocationDTO {
	return LocationDTO{Latitude: l.Latitude(), Longitude: l.Longitude()}
}

// positionFromDomain maps the zero Position to three NULL columns.
func positionFromDomain(p kernel.Position) PositionDTO {
	if p.IsZero() {
		return PositionDTO{}
	}
	lat := p.Location().Latitude()
	lon := p.Location().Longitude()
	at := p.RecordedAt()
	return PositionDTO{Latitude: &lat, Longitude: &lon, RecordedAt: &at}
}

// toDomain returns the zero Position unless every column is present.
func (p PositionDTO) toDomain() (kernel.Position, error) {
	if p.Latitude == nil || p.Longitude == nil || p.RecordedAt == nil {
		return kernel.Position{}, nil
	}
	loc, err := kernel.NewLocation(*p.Latitude, *p.Longitude)
	if err != nil {
		return kernel.Position{}, err
	}
	return kernel.NewPosition(loc, *p.RecordedAt)
}
