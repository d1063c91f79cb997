package userrepo

import (
	"context"
	"errors"
	"strings"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/user"
	"tracking/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements ports.UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a repository on db.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Add relies on the unique email index. The database must be opened with
// TranslateError so the violation arrives as gorm.ErrDuplicatedKey.
func (r *GormUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("user email", aggregate.Email(), err)
		}
		return err
	}
	return nil
}

// Get loads a user by id.
func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByEmail looks a user up by email, ignoring case and surrounding spaces.
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("email", email)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update rewrites the profile if availability still matches what the caller read.
func (r *GormUserRepository) Update(ctx context.Context, aggregate *user.User, expectedAvailable bool) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ? AND is_available = ?", dto.ID, expectedAvailable).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("user email", aggregate.Email(), result.Error)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("user", aggregate.ID().String())
	}
	return nil
}

// UpdateAssignment leaves identity and profile columns alone. A partner row
// touched by an assign or a delivery since the caller read it no longer
// matches and yields a ConflictError.
func (r *GormUserRepository) UpdateAssignment(
	ctx context.Context,
	aggregate *user.User,
	expectedAvailable bool,
	expectedOrderID kernel.UUID,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	query := r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ? AND is_available = ?", dto.ID, expectedAvailable)
	if expectedOrderID.IsZero() {
		query = query.Where("current_order_id IS NULL")
	} else {
		query = query.Where("current_order_id = ?", expectedOrderID.Bytes())
	}

	values := map[string]any{
		"is_available":     dto.IsAvailable,
		"current_order_id": nil,
		"last_latitude":    dto.Last.Latitude,
		"last_longitude":   dto.Last.Longitude,
		"last_recorded_at": dto.Last.RecordedAt,
	}
	if dto.CurrentOrderID != nil {
		values["current_order_id"] = *dto.CurrentOrderID
	}

	result := query.Updates(values)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("user", aggregate.ID().String())
	}
	return nil
}

// UpdateLastPosition records a delivery partner's latest position.
func (r *GormUserRepository) UpdateLastPosition(ctx context.Context, partnerID kernel.UUID, pos kernel.Position) error {
	if pos.IsZero() {
		return errs.NewValueIsRequiredError("position")
	}

	last := positionFromDomain(pos)
	result := r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ? AND role = ?", partnerID.Bytes(), identity.RoleDelivery.String()).
		Updates(map[string]any{
			"last_latitude":    last.Latitude,
			"last_longitude":   last.Longitude,
			"last_recorded_at": last.RecordedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery partner", partnerID.String())
	}
	return nil
}

// ListPartners returns delivery partners ordered by name.
func (r *GormUserRepository) ListPartners(ctx context.Context, availableOnly bool) ([]*user.User, error) {
	query := r.db.WithContext(ctx).Where("role = ?", identity.RoleDelivery.String())
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}

	var dtos []UserDTO
	if err := query.Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	partners := make([]*user.User, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		partners = append(partners, u)
	}
	return partners, nil
}
