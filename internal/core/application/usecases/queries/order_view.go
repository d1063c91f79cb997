// Package queries contains the read side. Order reads run plain SQL against
// the orders table and return flat views; reads that need domain behaviour
// (credentials, ranking, participant checks on a partner's order) go through
// the repositories.
package queries

import (
	"database/sql"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"

	"github.com/google/uuid"
)

const orderColumns = `
	id,
	customer_id,
	vendor_id,
	delivery_partner_id,
	status,
	pickup_latitude,
	pickup_longitude,
	delivery_latitude,
	delivery_longitude,
	current_latitude,
	current_longitude,
	current_recorded_at,
	created_at,
	updated_at`

// OrderView is the read model returned to participants.
type OrderView struct {
	ID                kernel.UUID
	CustomerID        kernel.UUID
	VendorID          kernel.UUID
	DeliveryPartnerID kernel.UUID // zero until assigned
	Status            order.Status
	Pickup            kernel.Location
	Delivery          kernel.Location
	Current           kernel.Position // zero unless the partner has reported
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsParticipant reports whether userID is the customer, the vendor or the
// assigned partner. An unassigned order never matches on the partner side.
func (v OrderView) IsParticipant(userID kernel.UUID) bool {
	if userID.IsZero() {
		return false
	}
	return v.CustomerID.IsEqual(userID) ||
		v.VendorID.IsEqual(userID) ||
		(!v.DeliveryPartnerID.IsZero() && v.DeliveryPartnerID.IsEqual(userID))
}

func scanOrderViews(rows *sql.Rows) ([]OrderView, error) {
	views := make([]OrderView, 0)
	for rows.Next() {
		var (
			id, customerID, vendorID uuid.UUID
			partnerID                *uuid.UUID
			status                   string
			pickupLat, pickupLon     float64
			dropLat, dropLon         float64
			curLat, curLon           *float64
			curAt                    *time.Time
			view                     OrderView
		)

		if err := rows.Scan(
			&id,
			&customerID,
			&vendorID,
			&partnerID,
			&status,
			&pickupLat,
			&pickupLon,
			&dropLat,
			&dropLon,
			&curLat,
			&curLon,
			&curAt,
			&view.CreatedAt,
			&view.UpdatedAt,
		); err != nil {
			return nil, err
		}

		view.ID = kernel.UUIDFrom(id)
		view.CustomerID = kernel.UUIDFrom(customerID)
		view.VendorID = kernel.UUIDFrom(vendorID)
		if partnerID != nil {
			view.DeliveryPartnerID = kernel.UUIDFrom(*partnerID)
		}

		var err error
		if view.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if view.Pickup, err = kernel.NewLocation(pickupLat, pickupLon); err != nil {
			return nil, err
		}
		if view.Delivery, err = kernel.NewLocation(dropLat, dropLon); err != nil {
			return nil, err
		}
		if curLat != nil && curLon != nil && curAt != nil {
			loc, locErr := kernel.NewLocation(*curLat, *curLon)
			if locErr != nil {
				return nil, locErr
			}
			if view.Current, err = kernel.NewPosition(loc, *curAt); err != nil {
				return nil, err
			}
		}
		view.CreatedAt = view.CreatedAt.UTC()
		view.UpdatedAt = view.UpdatedAt.UTC()

		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}
