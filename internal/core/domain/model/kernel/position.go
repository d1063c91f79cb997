package kernel

import (
	"time"

	"tracking/internal/pkg/errs"
)

// Position is a location observed at a point in time: the last reported
// whereabouts of a delivery partner.
type Position struct {
	location   Location
	recordedAt time.Time
}

// NewPosition stamps loc with the given time, normalised to UTC.
func NewPosition(loc Location, recordedAt time.Time) (Position, error) {
	if err := loc.Validate(); err != nil {
		return Position{}, err
	}
	if recordedAt.IsZero() {
		return Position{}, errs.NewValueIsRequiredError("recordedAt")
	}
	return Position{location: loc, recordedAt: recordedAt.UTC()}, nil
}

// Location returns where the position was reported.
func (p Position) Location() Location {
	return p.location
}

// RecordedAt returns when the position was reported, in UTC.
func (p Position) RecordedAt() time.Time {
	return p.recordedAt
}

// IsZero reports whether no position has been recorded.
func (p Position) IsZero() bool {
	return p.location.IsZero()
}
