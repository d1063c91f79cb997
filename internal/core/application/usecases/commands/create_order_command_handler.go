package commands

import (
	"context"
	"errors"
	"time"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"
)

// CreateOrderCommandHandler stores a new Pending order after checking the
// referenced vendor exists.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateOrderCommandHandler creates the handler.
func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory}
}

// Handle stores a new pending order for the customer.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
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

	vendor, err := uow.UserRepository().Get(ctx, cmd.VendorID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewObjectNotFoundError("vendorId", cmd.VendorID().String())
	}
	if err != nil {
		return nil, err
	}
	if vendor.Role() != identity.RoleVendor {
		return nil, errs.NewObjectNotFoundError("vendorId", cmd.VendorID().String())
	}

	o, err := order.NewOrder(kernel.NewUUID(), cmd.Customer().ID(), vendor.ID(), cmd.Pickup(), cmd.Delivery(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
