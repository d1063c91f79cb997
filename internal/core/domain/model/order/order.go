package order

import (
	"errors"
	"fmt"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root of a delivery: who ordered it, who sells it, who
// carries it, where it goes and where it is right now.
type Order struct {
	id                kernel.UUID
	customerID        kernel.UUID
	vendorID          kernel.UUID
	deliveryPartnerID kernel.UUID // zero until assigned
	status            Status
	pickup            kernel.Location
	delivery          kernel.Location
	current           kernel.Position // zero until the partner reports
	createdAt         time.Time
	updatedAt         time.Time
	guard             guard.ConstructorGuard
}

// NewOrder creates a Pending order without a delivery partner.
//
// Example:
//
//	pickup, _ := kernel.NewLocation(12.9, 77.6)
//	drop, _ := kernel.NewLocation(12.95, 77.65)
//	o, err := order.NewOrder(kernel.NewUUID(), customer.ID(), vendorID, pickup, drop, time.Now())
func NewOrder(
	id, customerID, vendorID kernel.UUID,
	pickup, delivery kernel.Location,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: now.UTC(),
		updatedAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setParticipants(customerID, vendorID),
		o.setRoute(pickup, delivery),
	); err != nil {
		return nil, err
	}
	return o, nil
}

// RestoreOrder rebuilds an order from storage, enforcing the partner/status invariant.
// deliveryPartnerID and current may be zero values.
func RestoreOrder(
	id, customerID, vendorID, deliveryPartnerID kernel.UUID,
	status Status,
	pickup, delivery kernel.Location,
	current kernel.Position,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		deliveryPartnerID: deliveryPartnerID,
		status:            status,
		current:           current,
		createdAt:         createdAt.UTC(),
		updatedAt:         updatedAt.UTC(),
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setParticipants(customerID, vendorID),
		o.setRoute(pickup, delivery),
		status.Validate(),
		o.checkPartnerInvariant(),
	); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate fails unless the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by id. A nil other is never equal.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order id.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// VendorID returns the vendor fulfilling the order.
func (o *Order) VendorID() kernel.UUID { return o.vendorID }

// DeliveryPartnerID returns the assigned partner, or the zero UUID while pending.
func (o *Order) DeliveryPartnerID() kernel.UUID { return o.deliveryPartnerID }

// Status returns the lifecycle status.
func (o *Order) Status() Status { return o.status }

// Pickup returns where the order is collected.
func (o *Order) Pickup() kernel.Location { return o.pickup }

// Delivery returns where the order is dropped off.
func (o *Order) Delivery() kernel.Location { return o.delivery }

// CurrentPosition returns the partner's latest reported position, zero if none.
func (o *Order) CurrentPosition() kernel.Position { return o.current }

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns when the status last changed.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// HasPartner reports whether a delivery partner is assigned.
func (o *Order) HasPartner() bool {
	return !o.deliveryPartnerID.IsZero()
}

// IsParticipant reports whether userID is the customer, the vendor or the
// assigned partner. An absent partner never matches.
func (o *Order) IsParticipant(userID kernel.UUID) bool {
	if userID.IsZero() {
		return false
	}
	return o.customerID.IsEqual(userID) ||
		o.vendorID.IsEqual(userID) ||
		(o.HasPartner() && o.deliveryPartnerID.IsEqual(userID))
}

// IsAssignedTo reports whether partnerID is the order's current partner.
func (o *Order) IsAssignedTo(partnerID kernel.UUID) bool {
	return o.HasPartner() && o.deliveryPartnerID.IsEqual(partnerID)
}

// Assign moves a Pending order to Assigned and records the partner.
// Any other starting status yields an InvalidTransitionError and leaves the order untouched.
func (o *Order) Assign(partnerID kernel.UUID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	if o.status != Pending {
		return errs.NewInvalidTransitionError(o.status, Assigned)
	}

	o.status = Assigned
	o.deliveryPartnerID = partnerID
	o.updatedAt = now.UTC()
	return nil
}

// Advance moves the order to its single legal successor. Assignment goes
// through Assign because it needs a partner. Reaching Delivered drops the
// current position.
func (o *Order) Advance(to Status, now time.Time) error {
	if to == Assigned {
		return errs.NewInvalidTransitionError(o.status, to)
	}
	next, err := o.status.TransitionTo(to)
	if err != nil {
		return err
	}

	o.status = next
	if next == Delivered {
		o.current = kernel.Position{}
	}
	o.updatedAt = now.UTC()
	return nil
}

// RecordPosition stores the partner's latest position. Only the assigned
// partner of an active order may write it.
func (o *Order) RecordPosition(partnerID kernel.UUID, pos kernel.Position) error {
	if !o.IsAssignedTo(partnerID) {
		return errs.NewNotAuthorizedError("report location for an order not assigned to the caller")
	}
	if !o.status.IsActive() {
		return errs.NewNotAuthorizedErrorWithCause(
			"report location", fmt.Errorf("order is %s", o.status))
	}
	if pos.IsZero() {
		return errs.NewValueIsRequiredError("position")
	}

	o.current = pos
	o.updatedAt = pos.RecordedAt()
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParticipants(customerID, vendorID kernel.UUID) error {
	if customerID.IsZero() {
		return errs.NewValueIsRequiredError("customerId")
	}
	if vendorID.IsZero() {
		return errs.NewValueIsRequiredError("vendorId")
	}
	o.customerID = customerID
	o.vendorID = vendorID
	return nil
}

func (o *Order) setRoute(pickup, delivery kernel.Location) error {
	if pickup.IsZero() {
		return errs.NewValueIsRequiredError("pickupLocation")
	}
	if delivery.IsZero() {
		return errs.NewValueIsRequiredError("deliveryLocation")
	}
	o.pickup = pickup
	o.delivery = delivery
	return nil
}

func (o *Order) checkPartnerInvariant() error {
	if o.status.RequiresPartner() != o.HasPartner() {
		return errs.NewValueIsInvalidErrorWithCause("deliveryPartnerId",
			fmt.Errorf("status %s with partner=%t", o.status, o.HasPartner()))
	}
	if !o.current.IsZero() && !o.status.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause("currentLocation",
			fmt.Errorf("status %s cannot carry a current location", o.status))
	}
	return nil
}
