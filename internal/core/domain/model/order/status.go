package order

import (
	"fmt"

	"tracking/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Assigned
	InProgress
	Delivered
)

var statusNames = map[Status]string{
	Unknown:    "unknown",
	Pending:    "pending",
	Assigned:   "assigned",
	InProgress: "in_progress",
	Delivered:  "delivered",
}

// successor is the whole state machine.
//
//nolint:exhaustive // Delivered and Unknown have no successor
var successor = map[Status]Status{
	Pending:    Assigned,
	Assigned:   InProgress,
	InProgress: Delivered,
}

// ParseStatus maps the wire name ("pending", "in_progress", ...) to a Status.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if st != Unknown && name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate fails for values outside the four known statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, e.g. "in_progress".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// Next returns the single legal successor. ok is false for Delivered and invalid values.
func (s Status) Next() (Status, bool) {
	next, ok := successor[s]
	return next, ok
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// IsActive reports whether a partner is currently working the order and may report its position.
func (s Status) IsActive() bool {
	return s == Assigned || s == InProgress
}

// RequiresPartner reports whether an order in this status must reference a delivery partner.
func (s Status) RequiresPartner() bool {
	return s == Assigned || s == InProgress || s == Delivered
}

// TransitionTo returns to if it is the successor of s, otherwise an InvalidTransitionError.
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return Unknown, err
	}
	next, ok := s.Next()
	if !ok || next != to {
		return Unknown, errs.NewInvalidTransitionError(s, to)
	}
	return to, nil
}

// ActiveStatuses lists the statuses during which the partner is busy with the order.
func ActiveStatuses() []Status {
	return []Status{Assigned, InProgress}
}
