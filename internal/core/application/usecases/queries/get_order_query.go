package queries

import (
	"errors"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches one order on behalf of a participant.
type GetOrderQuery struct {
	caller  identity.Principal
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewGetOrderQuery requires a valid caller and order id.
func NewGetOrderQuery(caller identity.Principal, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := caller.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	if orderID.IsZero() {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("orderId")
	}
	return GetOrderQuery{caller: caller, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate fails unless the query was built by its constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// Caller returns the authenticated principal.
func (q GetOrderQuery) Caller() identity.Principal { return q.caller }

// OrderID returns the target order.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
