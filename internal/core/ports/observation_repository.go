package ports

import (
	"context"

	"orderentry/internal/core/domain/model/kernel"
)

// ObservationRepository covers the observations recorded against an order.
// The core only needs them when an order is purged.
type ObservationRepository interface {
	// DeleteByOrder removes every observation referencing the order and
	// returns how many were removed.
	DeleteByOrder(ctx context.Context, orderID kernel.UUID) (int64, error)

	// DetachOrder clears the order reference of every observation pointing at
	// the order and returns how many were updated.
	DetachOrder(ctx context.Context, orderID kernel.UUID) (int64, error)
}
