// Package userrepo stores User aggregates, including the delivery-partner
// profile, in the users table.
package userrepo

import (
	"time"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// UserDTO is one row of the users table.
type UserDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"size:320;uniqueIndex;not null"`
	Name           string    `gorm:"not null"`
	PasswordHash   string    `gorm:"not null"`
	Role           string    `gorm:"size:16;index;not null"`
	StoreName      string
	Store          PointDTO    `gorm:"embedded;embeddedPrefix:store_"`
	IsAvailable    bool        `gorm:"not null;index"`
	CurrentOrderID *uuid.UUID  `gorm:"type:uuid"`
	Last           PositionDTO `gorm:"embedded;embeddedPrefix:last_"`
	CreatedAt      time.Time   `gorm:"autoCreateTime:false"`
}

// TableName overrides the gorm table name.
func (UserDTO) TableName() string {
	return "users"
}

// PointDTO is an optional location.
type PointDTO struct {
	Latitude  *float64
	Longitude *float64
}

// PositionDTO is nullable as a whole: all three columns are set or none is.
type PositionDTO struct {
	Latitude   *float64
	Longitude  *float64
	RecordedAt *time.Time
}

func fromDomain(u *user.User) UserDTO {
	dto := UserDTO{
		ID:           u.ID().Bytes(),
		Email:        u.Email(),
		Name:         u.Name(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		StoreName:    u.StoreName(),
		IsAvailable:  u.IsAvailable(),
		Last:         positionFromDomain(u.LastPosition()),
		CreatedAt:    u.CreatedAt(),
	}
	if loc := u.StoreLocation(); !loc.IsZero() {
		lat, lon := loc.Latitude(), loc.Longitude()
		dto.Store = PointDTO{Latitude: &lat, Longitude: &lon}
	}
	if !u.CurrentOrderID().IsZero() {
		orderID := u.CurrentOrderID().Bytes()
		dto.CurrentOrderID = &orderID
	}
	return dto
}

func toDomain(dto UserDTO) (*user.User, error) {
	role, err := identity.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	var store kernel.Location
	if dto.Store.Latitude != nil && dto.Store.Longitude != nil {
		if store, err = kernel.NewLocation(*dto.Store.Latitude, *dto.Store.Longitude); err != nil {
			return nil, err
		}
	}

	last, err := dto.Last.toDomain()
	if err != nil {
		return nil, err
	}

	var currentOrderID kernel.UUID
	if dto.CurrentOrderID != nil {
		currentOrderID = kernel.UUIDFrom(*dto.CurrentOrderID)
	}

	return user.RestoreUser(
		kernel.UUIDFrom(dto.ID),
		dto.Email,
		dto.Name,
		dto.PasswordHash,
		role,
		dto.StoreName,
		store,
		dto.IsAvailable,
		currentOrderID,
		last,
		dto.CreatedAt,
	)
}

func positionFromDomain(p kernel.Position) PositionDTO {
	if p.IsZero() {
		return PositionDTO{}
	}
	lat := p.Location().Latitude()
	lon := p.Location().Longitude()
	at := p.RecordedAt()
	return PositionDTO{Latitude: &lat, Longitude: &lon, RecordedAt: &at}
}

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
