package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/user"
	"tracking/internal/pkg/errs"
)

// Fulfillment coordinates an order with the partner who delivers it.
//
// Example:
//
//	f := services.NewFulfillment()
//	if err := f.Assign(o, partner, time.Now()); err != nil {
//	    return err // InvalidTransitionError, ConflictError or a validation error
//	}
//	// persist o and partner together
type Fulfillment struct{}

// NewFulfillment creates the service. It holds no state.
func NewFulfillment() Fulfillment {
	return Fulfillment{}
}

// Assign binds partner to a Pending order. Preconditions are checked before
// either aggregate is touched, so a failure leaves both unchanged.
func (Fulfillment) Assign(o *order.Order, partner *user.User, now time.Time) error {
	if err := errors.Join(o.Validate(), partner.Validate()); err != nil {
		return err
	}
	if o.Status() != order.Pending {
		return errs.NewInvalidTransitionError(o.Status(), order.Assigned)
	}

	if err := partner.TakeOrder(o.ID()); err != nil {
		return err
	}
	return o.Assign(partner.ID(), now)
}

// Advance moves the order to next. On Delivered the partner is released; every
// other transition leaves the partner profile alone. released reports whether
// the partner profile changed and must be saved.
func (Fulfillment) Advance(o *order.Order, partner *user.User, next order.Status, now time.Time) (bool, error) {
	if err := errors.Join(o.Validate(), partner.Validate()); err != nil {
		return false, err
	}
	if !o.IsAssignedTo(partner.ID()) {
		return false, errs.NewNotAuthorizedError("update status of an order not assigned to the caller")
	}
	if err := o.Advance(next, now); err != nil {
		return false, err
	}
	if next != order.Delivered {
		return false, nil
	}
	return partner.ReleaseOrder(o.ID()), nil
}

// RecordPosition writes pos to both the order and its partner.
func (Fulfillment) RecordPosition(o *order.Order, partner *user.User, pos kernel.Position) error {
	if err := o.RecordPosition(partner.ID(), pos); err != nil {
		return err
	}
	return partner.RecordPosition(pos)
}

// RankByDistance orders available partners by distance from their last known
// position to pickup. Partners that never reported sort last, keeping input order.
func (Fulfillment) RankByDistance(partners []*user.User, pickup kernel.Location) []*user.User {
	type ranked struct {
		u    *user.User
		dist float64
	}

	list := make([]ranked, 0, len(partners))
	for _, p := range partners {
		dist := math.MaxFloat64
		if pos := p.LastPosition(); !pos.IsZero() && !pickup.IsZero() {
			if d, err := pos.Location().DistanceMeters(pickup); err == nil {
				dist = d
			}
		}
		list = append(list, ranked{u: p, dist: dist})
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].dist < list[j].dist })

	out := make([]*user.User, len(list))
	for i, r := range list {
		out[i] = r.u
	}
	return out
}
