package commands

import (
	"errors"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places a new order from a customer with a vendor.
type CreateOrderCommand struct {
	customer identity.Customer
	vendorID kernel.UUID
	pickup   kernel.Location
	delivery kernel.Location
	guard    guard.ConstructorGuard
}

// NewCreateOrderCommand requires a narrowed customer; callers obtain it with
// Principal.AsCustomer, which is where non-customers are rejected.
func NewCreateOrderCommand(
	customer identity.Customer,
	vendorID kernel.UUID,
	pickup, delivery kernel.Location,
) (CreateOrderCommand, error) {
	if customer.ID().IsZero() {
		return CreateOrderCommand{}, errs.NewNotAuthorizedError("create order")
	}
	if vendorID.IsZero() {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("vendorId")
	}
	if pickup.IsZero() {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("pickupLocation")
	}
	if delivery.IsZero() {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("deliveryLocation")
	}

	return CreateOrderCommand{
		customer: customer,
		vendorID: vendorID,
		pickup:   pickup,
		delivery: delivery,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate fails unless the command was built by its constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Customer returns the customer placing the order.
func (c CreateOrderCommand) Customer() identity.Customer { return c.customer }

// VendorID returns the vendor asked to fulfil the order.
func (c CreateOrderCommand) VendorID() kernel.UUID { return c.vendorID }

// Pickup returns the pickup location.
func (c CreateOrderCommand) Pickup() kernel.Location { return c.pickup }

// Delivery returns the drop-off location.
func (c CreateOrderCommand) Delivery() kernel.Location { return c.delivery }
