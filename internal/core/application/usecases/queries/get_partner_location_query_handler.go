package queries

import (
	"context"
	"errors"

	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"
)

// GetPartnerLocationQueryHandler reads a partner's last position for permitted callers.
type GetPartnerLocationQueryHandler struct {
	users  ports.UserRepository
	orders ports.OrderRepository
}

// NewGetPartnerLocationQueryHandler creates the handler.
func NewGetPartnerLocationQueryHandler(
	users ports.UserRepository,
	orders ports.OrderRepository,
) GetPartnerLocationQueryHandler {
	return GetPartnerLocationQueryHandler{users: users, orders: orders}
}

// Handle lets the partner read their own position, and lets the customer and
// vendor of the partner's current order follow it. Everyone else, including
// callers naming a user that is not a delivery partner, gets NotAuthorizedError.
func (h GetPartnerLocationQueryHandler) Handle(
	ctx context.Context,
	query GetPartnerLocationQuery,
) (PartnerLocationView, error) {
	if err := query.Validate(); err != nil {
		return PartnerLocationView{}, err
	}

	denied := errs.NewNotAuthorizedError("view the location of this delivery partner")

	partner, err := h.users.Get(ctx, query.PartnerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return PartnerLocationView{}, denied
	}
	if err != nil {
		return PartnerLocationView{}, err
	}
	if !partner.IsDeliveryPartner() {
		return PartnerLocationView{}, denied
	}

	view := PartnerLocationView{
		PartnerID:      partner.ID(),
		CurrentOrderID: partner.CurrentOrderID(),
		Position:       partner.LastPosition(),
	}

	callerID := query.Caller().UserID()
	if callerID.IsEqual(partner.ID()) {
		return view, nil
	}
	if partner.CurrentOrderID().IsZero() {
		return PartnerLocationView{}, denied
	}

	o, err := h.orders.Get(ctx, partner.CurrentOrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return PartnerLocationView{}, denied
	}
	if err != nil {
		return PartnerLocationView{}, err
	}
	if !o.IsAssignedTo(partner.ID()) || !o.IsParticipant(callerID) {
		return PartnerLocationView{}, denied
	}
	return view, nil
}
