// Package ports defines the contracts between the order lifecycle core and the
// collaborators around it: persistence, order numbering, reference data and
// metrics. Adapters in internal/adapters implement them.
package ports

import (
	"context"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
)

// ActiveOrdersFilter selects the orders in effect for a patient at an instant.
type ActiveOrdersFilter struct {
	Patient kernel.UUID

	// OrderTypes restricts the result to these order types; empty means any.
	// Callers expand declared sub-types before querying.
	OrderTypes []kernel.UUID

	// CareSetting restricts the result when set.
	CareSetting *kernel.UUID

	// AsOf is the reference instant; zero means now.
	AsOf time.Time
}

// OrderRepository defines the persistence contract for order aggregates.
// Orders are append-only: the only change applied to a stored order is its
// stop date (and audit fields), through UpdateStopDate.
type OrderRepository interface {
	// Add persists a new order and returns it with its storage identity and
	// creation audit filled in. The order must not be persisted already.
	Add(ctx context.Context, aggregate *order.Order) (*order.Order, error)

	// UpdateStopDate writes the stop date and audit fields of a persisted order.
	// No other column is touched.
	UpdateStopDate(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by UUID.
	// Returns errs.ObjectNotFoundError when no order matches.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get with a row lock held until the transaction ends, so
	// two saves chaining onto the same order run one after the other.
	// Returns errs.ObjectNotFoundError when no order matches.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByOrderNumber retrieves an order by its order number.
	// Returns errs.ObjectNotFoundError when no order matches.
	GetByOrderNumber(ctx context.Context, number string) (*order.Order, error)

	// FindActive returns the orders active for the filter, oldest start first.
	// An order is active when it is current at AsOf and is not itself a
	// discontinuation order.
	FindActive(ctx context.Context, filter ActiveOrdersFilter) ([]*order.Order, error)

	// FindByConcept returns every non-voided order of the patient for the
	// concept, newest first.
	FindByConcept(ctx context.Context, patient, concept kernel.UUID) ([]*order.Order, error)

	// Delete removes the order row. Observations referencing it must already be
	// deleted or detached.
	Delete(ctx context.Context, aggregate *order.Order) error
}
