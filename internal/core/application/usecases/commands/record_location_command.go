package commands

import (
	"errors"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrRecordLocationCommandIsNotConstructed = errors.New(
	"RecordLocationCommand must be created via NewRecordLocationCommand constructor",
)

// RecordLocationCommand stores a position reported by a delivery partner.
// A zero orderID means "my current order, if any".
type RecordLocationCommand struct {
	partner  identity.DeliveryPartner
	orderID  kernel.UUID
	location kernel.Location
	guard    guard.ConstructorGuard
}

// NewRecordLocationCommand validates the coordinates. A zero orderID means the partner's current order.
func NewRecordLocationCommand(
	partner identity.DeliveryPartner,
	orderID kernel.UUID,
	location kernel.Location,
) (RecordLocationCommand, error) {
	if partner.ID().IsZero() {
		return RecordLocationCommand{}, errs.NewNotAuthorizedError("report location")
	}
	if err := location.Validate(); err != nil {
		return RecordLocationCommand{}, err
	}

	return RecordLocationCommand{
		partner:  partner,
		orderID:  orderID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate fails unless the command was built by its constructor.
func (c RecordLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecordLocationCommandIsNotConstructed)
}

// Partner returns the reporting delivery partner.
func (c RecordLocationCommand) Partner() identity.DeliveryPartner { return c.partner }

// OrderID returns the order the report is for, zero for the current order.
func (c RecordLocationCommand) OrderID() kernel.UUID { return c.orderID }

// Location returns the reported coordinates.
func (c RecordLocationCommand) Location() kernel.Location { return c.location }
