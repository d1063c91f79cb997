package queries_test

import (
	"context"
	"time"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/user"

	"github.com/stretchr/testify/mock"
)

var (
	pickup  = kernel.MustNewLocation(12.9, 77.6)
	dropOff = kernel.MustNewLocation(12.95, 77.65)
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User, expectedAvailable bool) error {
	return m.Called(ctx, u, expectedAvailable).Error(0)
}

func (m *MockUserRepository) UpdateAssignment(
	ctx context.Context,
	u *user.User,
	expectedAvailable bool,
	expectedOrderID kernel.UUID,
) error {
	return m.Called(ctx, u, expectedAvailable, expectedOrderID).Error(0)
}

func (m *MockUserRepository) UpdateLastPosition(ctx context.Context, partnerID kernel.UUID, pos kernel.Position) error {
	return m.Called(ctx, partnerID, pos).Error(0)
}

func (m *MockUserRepository) ListPartners(ctx context.Context, availableOnly bool) ([]*user.User, error) {
	args := m.Called(ctx, availableOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	return m.Called(ctx, o, expected).Error(0)
}

func (m *MockOrderRepository) UpdateCurrentPosition(
	ctx context.Context, orderID, partnerID kernel.UUID, pos kernel.Position,
) error {
	return m.Called(ctx, orderID, partnerID, pos).Error(0)
}

func (m *MockOrderRepository) ListForParticipant(
	ctx context.Context, role identity.Role, userID kernel.UUID,
) ([]*order.Order, error) {
	args := m.Called(ctx, role, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ActiveAssignments(ctx context.Context) (map[kernel.UUID]kernel.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]kernel.UUID), args.Error(1)
}

type MockHasher struct{ mock.Mock }

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, password string) error {
	return m.Called(hash, password).Error(0)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) Issue(p identity.Principal) (string, time.Time, error) {
	args := m.Called(p)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
