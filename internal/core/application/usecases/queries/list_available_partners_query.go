package queries

import (
	"errors"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/user"
	"tracking/internal/pkg/guard"
)

var ErrListAvailablePartnersQueryIsNotConstructed = errors.New(
	"ListAvailablePartnersQuery must be created via NewListAvailablePartnersQuery constructor",
)

// ListAvailablePartnersQuery lists free delivery partners for a vendor about to
// assign an order. With a non-zero near location the list is ranked by
// distance from each partner's last reported position.
type ListAvailablePartnersQuery struct {
	vendor identity.Vendor
	near   kernel.Location
	guard  guard.ConstructorGuard
}

// NewListAvailablePartnersQuery takes an optional near location; zero means unranked.
func NewListAvailablePartnersQuery(vendor identity.Vendor, near kernel.Location) ListAvailablePartnersQuery {
	return ListAvailablePartnersQuery{vendor: vendor, near: near, guard: guard.NewConstructorGuard()}
}

// Validate fails unless the query was built by its constructor.
func (q ListAvailablePartnersQuery) Validate() error {
	return q.guard.Validate(ErrListAvailablePartnersQueryIsNotConstructed)
}

// Vendor returns the vendor issuing the request.
func (q ListAvailablePartnersQuery) Vendor() identity.Vendor { return q.vendor }

// Near returns the ranking origin, zero when unranked.
func (q ListAvailablePartnersQuery) Near() kernel.Location { return q.near }

// PartnerView is a free partner as shown to vendors.
type PartnerView struct {
	ID           kernel.UUID
	Name         string
	Email        string
	LastPosition kernel.Position
}

func partnerViewOf(u *user.User) PartnerView {
	return PartnerView{ID: u.ID(), Name: u.Name(), Email: u.Email(), LastPosition: u.LastPosition()}
}
