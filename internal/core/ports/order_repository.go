// Package ports declares the contracts between the application core and its
// adapters: persistence, transactions, outbound events and credentials.
package ports

import (
	"context"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates.
type OrderRepository interface {
	// Add inserts a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get loads an order by id. Unknown ids yield errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Update writes the aggregate only if the stored status still equals expected.
	// When no row matches, a concurrent transition won and errs.ConflictError is returned.
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// UpdateCurrentPosition sets the current location of orderID only while the
	// order is assigned to partnerID and active. No matching row yields
	// errs.ObjectNotFoundError so callers cannot tell "missing" from "not yours".
	UpdateCurrentPosition(ctx context.Context, orderID, partnerID kernel.UUID, pos kernel.Position) error

	// ListForParticipant returns the orders where userID plays role, newest first.
	ListForParticipant(ctx context.Context, role identity.Role, userID kernel.UUID) ([]*order.Order, error)

	// ActiveAssignments maps each partner with an assigned or in-progress order to that order.
	ActiveAssignments(ctx context.Context) (map[kernel.UUID]kernel.UUID, error)
}
