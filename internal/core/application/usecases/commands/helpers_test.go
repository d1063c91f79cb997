package commands_test

import (
	"testing"
	"time"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/user"

	"github.com/stretchr/testify/require"
)

var (
	pickup  = kernel.MustNewLocation(12.9, 77.6)
	dropOff = kernel.MustNewLocation(12.95, 77.65)
)

func principal(t *testing.T, id kernel.UUID, role identity.Role) identity.Principal {
	t.Helper()
	p, err := identity.NewPrincipal(id, role)
	require.NoError(t, err)
	return p
}

func asCustomer(t *testing.T, id kernel.UUID) identity.Customer {
	t.Helper()
	c, err := principal(t, id, identity.RoleCustomer).AsCustomer()
	require.NoError(t, err)
	return c
}

func asVendor(t *testing.T, id kernel.UUID) identity.Vendor {
	t.Helper()
	v, err := principal(t, id, identity.RoleVendor).AsVendor()
	require.NoError(t, err)
	return v
}

func asPartner(t *testing.T, id kernel.UUID) identity.DeliveryPartner {
	t.Helper()
	d, err := principal(t, id, identity.RoleDelivery).AsDeliveryPartner()
	require.NoError(t, err)
	return d
}

func newUser(t *testing.T, role identity.Role) *user.User {
	t.Helper()
	id := kernel.NewUUID()
	u, err := user.NewUser(id, id.String()[:8]+"@example.com", "User "+string(role), "hash", role, time.Now())
	require.NoError(t, err)
	return u
}

func pendingOrder(t *testing.T, vendorID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), vendorID, pickup, dropOff, time.Now())
	require.NoError(t, err)
	return o
}

func assignedOrder(t *testing.T, partner *user.User) *order.Order {
	t.Helper()
	o := pendingOrder(t, kernel.NewUUID())
	require.NoError(t, o.Assign(partner.ID(), time.Now()))
	require.NoError(t, partner.TakeOrder(o.ID()))
	return o
}
