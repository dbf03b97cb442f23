package queries

import (
	"context"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// CountActiveOrdersQueryHandler counts active orders with a single aggregate
// query. The predicate is the SQL form of order.IsActive.
type CountActiveOrdersQueryHandler struct {
	db    *gorm.DB
	clock kernel.Clock
}

// NewCountActiveOrdersQueryHandler creates a handler for active order counts.
func NewCountActiveOrdersQueryHandler(db *gorm.DB, clock kernel.Clock) CountActiveOrdersQueryHandler {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return CountActiveOrdersQueryHandler{db: db, clock: clock}
}

// Handle returns the number of active orders.
func (h CountActiveOrdersQueryHandler) Handle(ctx context.Context, query CountActiveOrdersQuery) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	at := h.clock.Now()
	if asOf := query.AsOf(); asOf != nil {
		at = *asOf
	}

	var count int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM orders
		WHERE voided = false
			AND action <> ?
			AND (start_date IS NULL OR start_date <= ?)
			AND (date_stopped IS NULL OR date_stopped > ?)
			AND (auto_expire_date IS NULL OR auto_expire_date > ?)
	`, order.ActionDiscontinue.String(), at, at, at).Scan(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
