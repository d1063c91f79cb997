package commands

import (
	"context"
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
)

// RecordLocationResult describes a stored report. OrderID is zero when the
// partner reported without an active order; nothing is broadcast then.
type RecordLocationResult struct {
	OrderID         kernel.UUID
	PartnerID       kernel.UUID
	Position        kernel.Position
	RemainingMeters float64
}

// RecordLocationCommandHandler writes the partner's position to the order and to
// the partner profile. The order write is conditional on the partner still being
// assigned to an active order, so a report racing with delivery is rejected
// instead of resurrecting a cleared location.
type RecordLocationCommandHandler struct {
	uowFactory UoWFactory
}

// NewRecordLocationCommandHandler creates the handler.
func NewRecordLocationCommandHandler(uowFactory UoWFactory) RecordLocationCommandHandler {
	return RecordLocationCommandHandler{uowFactory: uowFactory}
}

// Handle stores the position on the order and on the partner profile.
func (h RecordLocationCommandHandler) Handle(ctx context.Context, cmd RecordLocationCommand) (RecordLocationResult, error) {
	if err := cmd.Validate(); err != nil {
		return RecordLocationResult{}, err
	}

	pos, err := kernel.NewPosition(cmd.Location(), time.Now())
	if err != nil {
		return RecordLocationResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return RecordLocationResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	userRepo := uow.UserRepository()
	partnerID := cmd.Partner().ID()

	orderID := cmd.OrderID()
	if orderID.IsZero() {
		partner, getErr := userRepo.Get(ctx, partnerID)
		if getErr != nil {
			return RecordLocationResult{}, getErr
		}
		orderID = partner.CurrentOrderID()
	}

	result := RecordLocationResult{OrderID: orderID, PartnerID: partnerID, Position: pos}

	if !orderID.IsZero() {
		o, getErr := orderRepo.Get(ctx, orderID)
		if errors.Is(getErr, errs.ErrObjectNotFound) {
			return RecordLocationResult{}, errs.NewNotAuthorizedError("report location for an order not assigned to the caller")
		}
		if getErr != nil {
			return RecordLocationResult{}, getErr
		}
		if !o.IsAssignedTo(partnerID) || !o.Status().IsActive() {
			return RecordLocationResult{}, errs.NewNotAuthorizedError("report location for an order not assigned to the caller")
		}

		err = orderRepo.UpdateCurrentPosition(ctx, orderID, partnerID, pos)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return RecordLocationResult{}, errs.NewNotAuthorizedErrorWithCause("report location", err)
		}
		if err != nil {
			return RecordLocationResult{}, err
		}

		if remaining, distErr := cmd.Location().DistanceMeters(o.Delivery()); distErr == nil {
			result.RemainingMeters = remaining
		}
	}

	if err = userRepo.UpdateLastPosition(ctx, partnerID, pos); err != nil {
		return RecordLocationResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RecordLocationResult{}, err
	}

	return result, nil
}
