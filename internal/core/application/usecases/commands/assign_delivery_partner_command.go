package commands

import (
	"errors"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrAssignDeliveryPartnerCommandIsNotConstructed = errors.New(
	"AssignDeliveryPartnerCommand must be created via NewAssignDeliveryPartnerCommand constructor",
)

// AssignDeliveryPartnerCommand hands a vendor's pending order to a delivery partner.
type AssignDeliveryPartnerCommand struct {
	vendor    identity.Vendor
	orderID   kernel.UUID
	partnerID kernel.UUID
	guard     guard.ConstructorGuard
}

// NewAssignDeliveryPartnerCommand requires both ids.
func NewAssignDeliveryPartnerCommand(
	vendor identity.Vendor,
	orderID, partnerID kernel.UUID,
) (AssignDeliveryPartnerCommand, error) {
	if vendor.ID().IsZero() {
		return AssignDeliveryPartnerCommand{}, errs.NewNotAuthorizedError("assign delivery partner")
	}
	if orderID.IsZero() {
		return AssignDeliveryPartnerCommand{}, errs.NewValueIsRequiredError("orderId")
	}
	if partnerID.IsZero() {
		return AssignDeliveryPartnerCommand{}, errs.NewValueIsRequiredError("deliveryPartnerId")
	}

	return AssignDeliveryPartnerCommand{
		vendor:    vendor,
		orderID:   orderID,
		partnerID: partnerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate fails unless the command was built by its constructor.
func (c AssignDeliveryPartnerCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryPartnerCommandIsNotConstructed)
}

// Vendor returns the vendor issuing the request.
func (c AssignDeliveryPartnerCommand) Vendor() identity.Vendor { return c.vendor }

// OrderID returns the target order.
func (c AssignDeliveryPartnerCommand) OrderID() kernel.UUID { return c.orderID }

// PartnerID returns the delivery partner.
func (c AssignDeliveryPartnerCommand) PartnerID() kernel.UUID { return c.partnerID }
