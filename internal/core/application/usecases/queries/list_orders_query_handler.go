package queries

import (
	"context"

	"tracking/internal/core/domain/model/identity"

	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads the caller's orders straight from the database.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates the handler on db.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns the caller's orders, newest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	caller := query.Caller()
	var column string
	switch caller.Role() {
	case identity.RoleCustomer:
		column = "customer_id"
	case identity.RoleVendor:
		column = "vendor_id"
	case identity.RoleDelivery:
		column = "delivery_partner_id"
	default:
		return nil, caller.Role().Validate()
	}

	rows, err := h.db.WithContext(ctx).Raw(`SELECT `+orderColumns+`
		FROM orders
		WHERE `+column+` = ?
		ORDER BY created_at DESC`, caller.UserID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrderViews(rows)
}
