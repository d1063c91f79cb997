package order_test

import (
	"testing"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pickup   = kernel.MustNewLocation(12.9, 77.6)
	dropOff  = kernel.MustNewLocation(12.95, 77.65)
	clock    = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	customer = kernel.NewUUID()
	vendor   = kernel.NewUUID()
)

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), customer, vendor, pickup, dropOff, clock)
	require.NoError(t, err)
	return o
}

// checkInvariants asserts the partner/status and location/status relations.
func checkInvariants(t *testing.T, o *order.Order) {
	t.Helper()
	assert.Equal(t, o.Status().RequiresPartner(), o.HasPartner(), "partner iff status in {assigned,in_progress,delivered}")
	if !o.Status().IsActive() {
		assert.True(t, o.CurrentPosition().IsZero(), "no current location outside active statuses")
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("starts pending without partner", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.False(t, o.HasPartner())
		assert.True(t, o.CurrentPosition().IsZero())
		assert.Equal(t, pickup, o.Pickup())
		assert.Equal(t, dropOff, o.Delivery())
		assert.Equal(t, clock, o.CreatedAt())
		checkInvariants(t, o)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, customer, vendor, pickup, dropOff, clock)
		require.Error(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), kernel.UUID{}, vendor, pickup, dropOff, clock)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = order.NewOrder(kernel.NewUUID(), customer, vendor, kernel.Location{}, dropOff, clock)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "pickupLocation")
	})

	t.Run("zero order fails validation", func(t *testing.T) {
		var o *order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
		require.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	o := newPendingOrder(t)
	partner := kernel.NewUUID()

	require.NoError(t, o.Assign(partner, clock.Add(time.Minute)))
	assert.Equal(t, order.Assigned, o.Status())
	assert.True(t, o.IsAssignedTo(partner))
	checkInvariants(t, o)

	pos, err := kernel.NewPosition(kernel.MustNewLocation(12.91, 77.61), clock.Add(2*time.Minute))
	require.NoError(t, err)
	require.NoError(t, o.RecordPosition(partner, pos))
	assert.Equal(t, pos, o.CurrentPosition())

	err = o.Advance(order.Delivered, clock)
	require.ErrorIs(t, err, errs.ErrInvalidTransition, "assigned cannot skip to delivered")
	assert.Equal(t, order.Assigned, o.Status())

	require.NoError(t, o.Advance(order.InProgress, clock.Add(3*time.Minute)))
	checkInvariants(t, o)
	assert.False(t, o.CurrentPosition().IsZero(), "position survives in_progress")

	require.NoError(t, o.Advance(order.Delivered, clock.Add(4*time.Minute)))
	assert.Equal(t, order.Delivered, o.Status())
	assert.True(t, o.CurrentPosition().IsZero(), "delivery clears current location")
	checkInvariants(t, o)

	for _, to := range []order.Status{order.Pending, order.Assigned, order.InProgress, order.Delivered} {
		require.ErrorIs(t, o.Advance(to, clock), errs.ErrInvalidTransition, "delivered is terminal")
	}
	require.ErrorIs(t, o.Assign(kernel.NewUUID(), clock), errs.ErrInvalidTransition)
	assert.True(t, o.IsAssignedTo(partner))
}

func TestOrder_Assign(t *testing.T) {
	t.Run("reassign fails and leaves the order unchanged", func(t *testing.T) {
		o := newPendingOrder(t)
		first := kernel.NewUUID()
		require.NoError(t, o.Assign(first, clock))

		err := o.Assign(kernel.NewUUID(), clock)

		var transitionErr *errs.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, "assigned", transitionErr.From)
		assert.True(t, o.IsAssignedTo(first))
	})

	t.Run("requires a partner id", func(t *testing.T) {
		o := newPendingOrder(t)
		require.Error(t, o.Assign(kernel.UUID{}, clock))
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("advance cannot assign", func(t *testing.T) {
		o := newPendingOrder(t)
		require.ErrorIs(t, o.Advance(order.Assigned, clock), errs.ErrInvalidTransition)
		checkInvariants(t, o)
	})
}

func TestOrder_RecordPosition(t *testing.T) {
	partner := kernel.NewUUID()
	pos, err := kernel.NewPosition(kernel.MustNewLocation(12.91, 77.61), clock)
	require.NoError(t, err)

	t.Run("pending order rejects any reporter", func(t *testing.T) {
		o := newPendingOrder(t)
		require.ErrorIs(t, o.RecordPosition(partner, pos), errs.ErrNotAuthorized)
	})

	t.Run("other partner is rejected", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(partner, clock))
		require.ErrorIs(t, o.RecordPosition(kernel.NewUUID(), pos), errs.ErrNotAuthorized)
		assert.True(t, o.CurrentPosition().IsZero())
	})

	t.Run("delivered order is rejected", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(partner, clock))
		require.NoError(t, o.Advance(order.InProgress, clock))
		require.NoError(t, o.Advance(order.Delivered, clock))
		require.ErrorIs(t, o.RecordPosition(partner, pos), errs.ErrNotAuthorized)
	})
}

func TestOrder_IsParticipant(t *testing.T) {
	o := newPendingOrder(t)

	assert.True(t, o.IsParticipant(customer))
	assert.True(t, o.IsParticipant(vendor))
	assert.False(t, o.IsParticipant(kernel.NewUUID()))
	assert.False(t, o.IsParticipant(kernel.UUID{}), "absent partner never matches the zero id")

	partner := kernel.NewUUID()
	require.NoError(t, o.Assign(partner, clock))
	assert.True(t, o.IsParticipant(partner))
}

func TestRestoreOrder(t *testing.T) {
	partner := kernel.NewUUID()

	t.Run("consistent row", func(t *testing.T) {
		o, err := order.RestoreOrder(kernel.NewUUID(), customer, vendor, partner, order.InProgress,
			pickup, dropOff, kernel.Position{}, clock, clock)
		require.NoError(t, err)
		assert.True(t, o.IsAssignedTo(partner))
	})

	t.Run("assigned without partner", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), customer, vendor, kernel.UUID{}, order.Assigned,
			pickup, dropOff, kernel.Position{}, clock, clock)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("pending with partner", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), customer, vendor, partner, order.Pending,
			pickup, dropOff, kernel.Position{}, clock, clock)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("delivered with location", func(t *testing.T) {
		pos, _ := kernel.NewPosition(pickup, clock)
		_, err := order.RestoreOrder(kernel.NewUUID(), customer, vendor, partner, order.Delivered,
			pickup, dropOff, pos, clock, clock)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
