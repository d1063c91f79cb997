package queries

import (
	"errors"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists the caller's orders: placed by a customer, sold by a
// vendor, or carried by a delivery partner, depending on the caller's role.
type ListOrdersQuery struct {
	caller identity.Principal
	guard  guard.ConstructorGuard
}

// NewListOrdersQuery requires a valid caller.
func NewListOrdersQuery(caller identity.Principal) (ListOrdersQuery, error) {
	if err := caller.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{caller: caller, guard: guard.NewConstructorGuard()}, nil
}

// Validate fails unless the query was built by its constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Caller returns the authenticated principal.
func (q ListOrdersQuery) Caller() identity.Principal { return q.caller }
