package commands

import (
	"errors"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand advances an order on behalf of its delivery partner.
type UpdateOrderStatusCommand struct {
	partner identity.DeliveryPartner
	orderID kernel.UUID
	status  order.Status
	guard   guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand requires the order id and a known target status.
func NewUpdateOrderStatusCommand(
	partner identity.DeliveryPartner,
	orderID kernel.UUID,
	status order.Status,
) (UpdateOrderStatusCommand, error) {
	if partner.ID().IsZero() {
		return UpdateOrderStatusCommand{}, errs.NewNotAuthorizedError("update order status")
	}
	if orderID.IsZero() {
		return UpdateOrderStatusCommand{}, errs.NewValueIsRequiredError("orderId")
	}
	if err := status.Validate(); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		partner: partner,
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate fails unless the command was built by its constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// Partner returns the reporting delivery partner.
func (c UpdateOrderStatusCommand) Partner() identity.DeliveryPartner { return c.partner }

// OrderID returns the target order.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }

// Status returns the requested status.
func (c UpdateOrderStatusCommand) Status() order.Status { return c.status }
