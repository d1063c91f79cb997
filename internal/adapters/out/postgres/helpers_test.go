package postgres_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	postgres_adapter "tracking/internal/adapters/out/postgres"
	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/user"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	pickup  = kernel.MustNewLocation(12.9, 77.6)
	dropOff = kernel.MustNewLocation(12.95, 77.65)
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := postgres_adapter.Open(postgres_adapter.Config{
		Driver:     postgres_adapter.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "tracking.db"),
	})
	require.NoError(t, err)
	return db
}

// eventRecorder collects committed orders as status snapshots.
type eventRecorder struct {
	mu     sync.Mutex
	orders []kernel.UUID
	status []order.Status
}

func (r *eventRecorder) OrderChanged(_ context.Context, o *order.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o.ID())
	r.status = append(r.status, o.Status())
}

func (r *eventRecorder) snapshot() ([]kernel.UUID, []order.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]kernel.UUID(nil), r.orders...), append([]order.Status(nil), r.status...)
}

func newTestUser(t *testing.T, role identity.Role) *user.User {
	t.Helper()
	id := kernel.NewUUID()
	u, err := user.NewUser(id, id.String()[:8]+"@example.com", "Test "+role.String(), "hash", role, time.Now())
	require.NoError(t, err)
	return u
}

func newTestOrder(t *testing.T, vendorID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), vendorID, pickup, dropOff, time.Now())
	require.NoError(t, err)
	return o
}
