package services_test

import (
	"testing"
	"time"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/user"
	"tracking/internal/core/domain/services"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.MustNewLocation(12.9, 77.6), kernel.MustNewLocation(12.95, 77.65), now)
	require.NoError(t, err)
	return o
}

func partner(t *testing.T, name string) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), name+"@example.com", name, "hash", identity.RoleDelivery, now)
	require.NoError(t, err)
	return u
}

func TestFulfillment_Assign(t *testing.T) {
	f := services.NewFulfillment()

	t.Run("binds order and partner", func(t *testing.T) {
		o, p := pendingOrder(t), partner(t, "p1")

		require.NoError(t, f.Assign(o, p, now))

		assert.Equal(t, order.Assigned, o.Status())
		assert.True(t, o.IsAssignedTo(p.ID()))
		assert.False(t, p.IsAvailable())
		assert.True(t, p.CurrentOrderID().IsEqual(o.ID()))
	})

	t.Run("non pending order leaves both unchanged", func(t *testing.T) {
		o, first, second := pendingOrder(t), partner(t, "p1"), partner(t, "p2")
		require.NoError(t, f.Assign(o, first, now))

		err := f.Assign(o, second, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.True(t, o.IsAssignedTo(first.ID()))
		assert.True(t, second.IsAvailable())
		assert.True(t, second.CurrentOrderID().IsZero())
	})

	t.Run("busy partner leaves the order pending", func(t *testing.T) {
		busy := partner(t, "busy")
		require.NoError(t, f.Assign(pendingOrder(t), busy, now))

		o := pendingOrder(t)
		err := f.Assign(o, busy, now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Pending, o.Status())
		assert.False(t, o.HasPartner())
	})

	t.Run("customer cannot be assigned", func(t *testing.T) {
		c, err := user.NewUser(kernel.NewUUID(), "c@example.com", "c", "h", identity.RoleCustomer, now)
		require.NoError(t, err)
		o := pendingOrder(t)

		require.ErrorIs(t, f.Assign(o, c, now), errs.ErrValueIsInvalid)
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestFulfillment_Advance(t *testing.T) {
	f := services.NewFulfillment()

	o, p := pendingOrder(t), partner(t, "p1")
	require.NoError(t, f.Assign(o, p, now))
	pos, err := kernel.NewPosition(kernel.MustNewLocation(12.91, 77.61), now)
	require.NoError(t, err)
	require.NoError(t, f.RecordPosition(o, p, pos))

	_, err = f.Advance(o, p, order.Delivered, now)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.False(t, p.IsAvailable(), "failed transition does not free the partner")

	_, err = f.Advance(o, partner(t, "intruder"), order.InProgress, now)
	require.ErrorIs(t, err, errs.ErrNotAuthorized)

	released, err := f.Advance(o, p, order.InProgress, now)
	require.NoError(t, err)
	assert.False(t, released)
	assert.False(t, p.IsAvailable())

	released, err = f.Advance(o, p, order.Delivered, now)
	require.NoError(t, err)
	assert.True(t, released)
	assert.True(t, p.IsAvailable())
	assert.True(t, p.CurrentOrderID().IsZero())
	assert.True(t, p.LastPosition().IsZero())
	assert.True(t, o.CurrentPosition().IsZero())
}

func TestFulfillment_RankByDistance(t *testing.T) {
	f := services.NewFulfillment()
	pickup := kernel.MustNewLocation(12.9, 77.6)

	far, near, silent := partner(t, "far"), partner(t, "near"), partner(t, "silent")
	farPos, _ := kernel.NewPosition(kernel.MustNewLocation(13.2, 77.9), now)
	nearPos, _ := kernel.NewPosition(kernel.MustNewLocation(12.901, 77.601), now)
	require.NoError(t, far.RecordPosition(farPos))
	require.NoError(t, near.RecordPosition(nearPos))

	ranked := f.RankByDistance([]*user.User{silent, far, near}, pickup)

	require.Len(t, ranked, 3)
	assert.Equal(t, near.ID(), ranked[0].ID())
	assert.Equal(t, far.ID(), ranked[1].ID())
	assert.Equal(t, silent.ID(), ranked[2].ID())
}
