package commands

import (
	"context"
	"errors"
	"time"

	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/services"
	"tracking/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler applies the partner's next lifecycle step.
// Delivery also frees the partner within the same transaction.
type UpdateOrderStatusCommandHandler struct {
	uowFactory  UoWFactory
	fulfillment services.Fulfillment
}

// NewUpdateOrderStatusCommandHandler creates the handler.
func NewUpdateOrderStatusCommandHandler(uowFactory UoWFactory) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		fulfillment: services.NewFulfillment(),
	}
}

// Handle fails with NotAuthorizedError when the order is missing or belongs to
// another partner, and with InvalidTransitionError for anything but the single
// legal successor.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
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
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewNotAuthorizedError("update status of an order not assigned to the caller")
	}
	if err != nil {
		return nil, err
	}
	if !o.IsAssignedTo(cmd.Partner().ID()) {
		return nil, errs.NewNotAuthorizedError("update status of an order not assigned to the caller")
	}

	partner, err := userRepo.Get(ctx, cmd.Partner().ID())
	if err != nil {
		return nil, err
	}

	expectedStatus := o.Status()
	expectedAvailable := partner.IsAvailable()

	released, err := h.fulfillment.Advance(o, partner, cmd.Status(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o, expectedStatus); err != nil {
		return nil, err
	}

	if released {
		if err = userRepo.Update(ctx, partner, expectedAvailable); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
