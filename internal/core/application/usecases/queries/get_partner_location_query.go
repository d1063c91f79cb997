package queries

import (
	"errors"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrGetPartnerLocationQueryIsNotConstructed = errors.New(
	"GetPartnerLocationQuery must be created via NewGetPartnerLocationQuery constructor",
)

// GetPartnerLocationQuery reads a delivery partner's last known position.
type GetPartnerLocationQuery struct {
	caller    identity.Principal
	partnerID kernel.UUID
	guard     guard.ConstructorGuard
}

// NewGetPartnerLocationQuery requires a valid caller and partner id.
func NewGetPartnerLocationQuery(caller identity.Principal, partnerID kernel.UUID) (GetPartnerLocationQuery, error) {
	if err := caller.Validate(); err != nil {
		return GetPartnerLocationQuery{}, err
	}
	if partnerID.IsZero() {
		return GetPartnerLocationQuery{}, errs.NewValueIsRequiredError("partnerId")
	}
	return GetPartnerLocationQuery{caller: caller, partnerID: partnerID, guard: guard.NewConstructorGuard()}, nil
}

// Validate fails unless the query was built by its constructor.
func (q GetPartnerLocationQuery) Validate() error {
	return q.guard.Validate(ErrGetPartnerLocationQueryIsNotConstructed)
}

// Caller returns the authenticated principal.
func (q GetPartnerLocationQuery) Caller() identity.Principal { return q.caller }

// PartnerID returns the delivery partner.
func (q GetPartnerLocationQuery) PartnerID() kernel.UUID { return q.partnerID }

// PartnerLocationView is a partner's last reported position. Position is zero before the first report.
type PartnerLocationView struct {
	PartnerID      kernel.UUID
	CurrentOrderID kernel.UUID // zero when the partner is free
	Position       kernel.Position
}
