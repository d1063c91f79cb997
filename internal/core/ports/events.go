package ports

import (
	"context"

	"tracking/internal/core/domain/model/order"
)

// OrderEvents receives orders whose state was committed. Implementations must
// not block: they run on the committing goroutine.
type OrderEvents interface {
	OrderChanged(ctx context.Context, o *order.Order)
}
