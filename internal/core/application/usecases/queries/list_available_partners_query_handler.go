package queries

import (
	"context"

	"tracking/internal/core/domain/services"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"
)

// ListAvailablePartnersQueryHandler lists partners a vendor can assign.
type ListAvailablePartnersQueryHandler struct {
	users       ports.UserRepository
	fulfillment services.Fulfillment
}

// NewListAvailablePartnersQueryHandler creates the handler.
func NewListAvailablePartnersQueryHandler(users ports.UserRepository) ListAvailablePartnersQueryHandler {
	return ListAvailablePartnersQueryHandler{users: users, fulfillment: services.NewFulfillment()}
}

// Handle returns available partners, nearest first when the query has a location.
func (h ListAvailablePartnersQueryHandler) Handle(
	ctx context.Context,
	query ListAvailablePartnersQuery,
) ([]PartnerView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if query.Vendor().ID().IsZero() {
		return nil, errs.NewNotAuthorizedError("list partners without a vendor identity")
	}

	partners, err := h.users.ListPartners(ctx, true)
	if err != nil {
		return nil, err
	}

	if !query.Near().IsZero() {
		partners = h.fulfillment.RankByDistance(partners, query.Near())
	}

	views := make([]PartnerView, 0, len(partners))
	for _, p := range partners {
		views = append(views, partnerViewOf(p))
	}
	return views, nil
}
