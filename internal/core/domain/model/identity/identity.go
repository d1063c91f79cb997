// Package identity models who is calling: an authenticated user id plus one role
// from a closed set. Commands demand a concrete role type (Customer, Vendor,
// DeliveryPartner) instead of comparing role strings, so the capability check
// happens exactly once, where the Principal is narrowed.
package identity

import (
	"fmt"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

// Role is one of the three participant kinds of a delivery.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleDelivery Role = "delivery"
)

// ErrPrincipalIsNotConstructed is returned when a zero Principal is narrowed.
var ErrPrincipalIsNotConstructed = errs.NewNotAuthorizedError("unauthenticated caller")

// ParseRole accepts the wire names "customer", "vendor" and "delivery".
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate fails for roles outside the closed set.
func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleVendor, RoleDelivery:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("unknown role %q", string(r)))
	}
}

// String returns the wire name of the role.
func (r Role) String() string {
	return string(r)
}

// Principal is the output of authentication: the caller's id and role.
type Principal struct {
	userID kernel.UUID
	role   Role
	guard  guard.ConstructorGuard
}

// NewPrincipal pairs a user id with a validated role.
func NewPrincipal(userID kernel.UUID, role Role) (Principal, error) {
	if err := userID.Validate(); err != nil {
		return Principal{}, err
	}
	if err := role.Validate(); err != nil {
		return Principal{}, err
	}
	return Principal{userID: userID, role: role, guard: guard.NewConstructorGuard()}, nil
}

// UserID returns the authenticated user's id.
func (p Principal) UserID() kernel.UUID {
	return p.userID
}

// Role returns the authenticated user's role.
func (p Principal) Role() Role {
	return p.role
}

// Validate fails for the zero Principal.
func (p Principal) Validate() error {
	return p.guard.Validate(ErrPrincipalIsNotConstructed)
}

// Customer is a principal proven to hold RoleCustomer.
type Customer struct{ id kernel.UUID }

// Vendor is a principal proven to hold RoleVendor.
type Vendor struct{ id kernel.UUID }

// DeliveryPartner is a principal proven to hold RoleDelivery.
type DeliveryPartner struct{ id kernel.UUID }

// ID returns the customer's user id.
func (c Customer) ID() kernel.UUID { return c.id }

// ID returns the vendor's user id.
func (v Vendor) ID() kernel.UUID { return v.id }

// ID returns the partner's user id.
func (d DeliveryPartner) ID() kernel.UUID { return d.id }

// AsCustomer narrows p or fails with a NotAuthorizedError.
func (p Principal) AsCustomer() (Customer, error) {
	if err := p.require(RoleCustomer); err != nil {
		return Customer{}, err
	}
	return Customer{id: p.userID}, nil
}

// AsVendor narrows p or fails with a NotAuthorizedError.
func (p Principal) AsVendor() (Vendor, error) {
	if err := p.require(RoleVendor); err != nil {
		return Vendor{}, err
	}
	return Vendor{id: p.userID}, nil
}

// AsDeliveryPartner narrows p or fails with a NotAuthorizedError.
func (p Principal) AsDeliveryPartner() (DeliveryPartner, error) {
	if err := p.require(RoleDelivery); err != nil {
		return DeliveryPartner{}, err
	}
	return DeliveryPartner{id: p.userID}, nil
}

func (p Principal) require(role Role) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.role != role {
		return errs.NewNotAuthorizedError(fmt.Sprintf("role %s required, caller is %s", role, p.role))
	}
	return nil
}
