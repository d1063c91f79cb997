package commands

import (
	"context"
	"errors"
	"time"

	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/services"
	"tracking/internal/pkg/errs"
)

// AssignDeliveryPartnerCommandHandler moves a Pending order to Assigned and
// marks the partner busy in the same transaction.
//
// Both writes are conditional on the values read at the start (order status,
// partner availability). Of two vendors racing for the same order, or two orders
// racing for the same partner, exactly one commits; the other gets a ConflictError.
//
// Example:
//
//	vendor, err := principal.AsVendor()
//	if err != nil {
//	    return err
//	}
//	cmd, err := commands.NewAssignDeliveryPartnerCommand(vendor, orderID, partnerID)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):     // unknown order, or not this vendor's
//	case errors.Is(err, errs.ErrInvalidTransition):  // order is no longer pending
//	case errors.Is(err, errs.ErrConflict):           // lost a race
//	}
type AssignDeliveryPartnerCommandHandler struct {
	uowFactory  UoWFactory
	fulfillment services.Fulfillment
}

// NewAssignDeliveryPartnerCommandHandler creates the handler.
func NewAssignDeliveryPartnerCommandHandler(uowFactory UoWFactory) AssignDeliveryPartnerCommandHandler {
	return AssignDeliveryPartnerCommandHandler{
		uowFactory:  uowFactory,
		fulfillment: services.NewFulfillment(),
	}
}

// Handle assigns the partner and marks them busy in one unit of work.
func (h AssignDeliveryPartnerCommandHandler) Handle(
	ctx context.Context,
	cmd AssignDeliveryPartnerCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	userRepo := uow.UserRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	// Foreign orders look exactly like missing ones.
	if !o.VendorID().IsEqual(cmd.Vendor().ID()) {
		return nil, errs.NewObjectNotFoundError("orderId", cmd.OrderID().String())
	}

	partner, err := userRepo.Get(ctx, cmd.PartnerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewObjectNotFoundError("deliveryPartnerId", cmd.PartnerID().String())
	}
	if err != nil {
		return nil, err
	}

	expectedStatus := o.Status()
	expectedAvailable := partner.IsAvailable()

	if err = h.fulfillment.Assign(o, partner, time.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o, expectedStatus); err != nil {
		return nil, err
	}

	if err = userRepo.Update(ctx, partner, expectedAvailable); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
