package orderrepo

import (
	"context"
	"errors"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository. Added and updated
// aggregates are reported to the tracker so the unit of work can announce them
// after commit.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a repository on db. Written aggregates are reported to tracker.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new order.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("order", aggregate.ID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// currentColumns hold the latest reported position. UpdateCurrentPosition owns
// them while the order is active.
var currentColumns = []string{"current_latitude", "current_longitude", "current_recorded_at"}

// Update rewrites the mutable columns, guarded by the status the caller read.
// The current position is written only when the order is delivered, which
// clears it; otherwise a report committed after the caller's read is kept.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	omit := []string{"id", "created_at"}
	if aggregate.Status() != order.Delivered {
		omit = append(omit, currentColumns...)
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Select("*").
		Omit(omit...).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateCurrentPosition writes the latest position while partnerID holds the active order.
func (r *GormOrderRepository) UpdateCurrentPosition(
	ctx context.Context,
	orderID, partnerID kernel.UUID,
	pos kernel.Position,
) error {
	if pos.IsZero() {
		return errs.NewValueIsRequiredError("position")
	}

	current := positionFromDomain(pos)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND delivery_partner_id = ? AND status IN ?",
			orderID.Bytes(), partnerID.Bytes(), activeStatusNames()).
		Updates(map[string]any{
			"current_latitude":    current.Latitude,
			"current_longitude":   current.Longitude,
			"current_recorded_at": current.RecordedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("active order of partner", orderID.String())
	}
	return nil
}

// Get loads an order by id.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListForParticipant returns the orders where userID plays role, newest first.
func (r *GormOrderRepository) ListForParticipant(
	ctx context.Context,
	role identity.Role,
	userID kernel.UUID,
) ([]*order.Order, error) {
	column, err := participantColumn(role)
	if err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err = r.db.WithContext(ctx).
		Where(column+" = ?", userID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// ActiveAssignments maps each partner with an assigned or in-progress order to that order.
func (r *GormOrderRepository) ActiveAssignments(ctx context.Context) (map[kernel.UUID]kernel.UUID, error) {
	var rows []struct {
		ID                uuid.UUID
		DeliveryPartnerID uuid.UUID
	}
	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("id", "delivery_partner_id").
		Where("status IN ? AND delivery_partner_id IS NOT NULL", activeStatusNames()).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	assignments := make(map[kernel.UUID]kernel.UUID, len(rows))
	for _, row := range rows {
		assignments[kernel.UUIDFrom(row.DeliveryPartnerID)] = kernel.UUIDFrom(row.ID)
	}
	return assignments, nil
}

func participantColumn(role identity.Role) (string, error) {
	switch role {
	case identity.RoleCustomer:
		return "customer_id", nil
	case identity.RoleVendor:
		return "vendor_id", nil
	case identity.RoleDelivery:
		return "delivery_partner_id", nil
	default:
		return "", role.Validate()
	}
}

func activeStatusNames() []string {
	active := order.ActiveStatuses()
	names := make([]string, 0, len(active))
	for _, s := range active {
		names = append(names, s.String())
	}
	return names
}
