package ports

import (
	"context"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/user"
)

// UserRepository persists User aggregates.
type UserRepository interface {
	// Add inserts a user. A taken email yields errs.ConflictError.
	Add(ctx context.Context, aggregate *user.User) error

	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	GetByEmail(ctx context.Context, email string) (*user.User, error)

	// Update writes the aggregate only if the stored availability still equals
	// expectedAvailable, otherwise errs.ConflictError.
	Update(ctx context.Context, aggregate *user.User, expectedAvailable bool) error

	// UpdateAssignment writes availability, current order and last position only
	// while the stored availability and current order still equal the expected
	// values. Otherwise errs.ConflictError is returned and nothing changes.
	UpdateAssignment(
		ctx context.Context,
		aggregate *user.User,
		expectedAvailable bool,
		expectedOrderID kernel.UUID,
	) error

	// UpdateLastPosition records a delivery partner's latest position.
	UpdateLastPosition(ctx context.Context, partnerID kernel.UUID, pos kernel.Position) error

	// ListPartners returns every delivery partner; availableOnly narrows to free ones.
	ListPartners(ctx context.Context, availableOnly bool) ([]*user.User, error)
}
