package ports

import (
	"context"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
)

// OrderNumberGenerator hands out order numbers. Implementations must be safe
// for concurrent use and never return the same number twice, whether or not
// the caller goes on to persist the order.
type OrderNumberGenerator interface {
	NextOrderNumber(ctx context.Context, oc order.Context) (string, error)
}

// ReferenceData answers the order type questions the lifecycle rules ask.
// Lookups are in-memory and do not block.
type ReferenceData interface {
	// OrderTypeForConcept maps a concept onto its order type through the
	// concept class. Returns false when no mapping exists.
	OrderTypeForConcept(concept clinical.Concept) (clinical.OrderType, bool)

	// IsSubtype reports whether candidate is of, or declares of as an ancestor.
	IsSubtype(candidate, of clinical.OrderType) bool

	// SubtypeIDs returns id and the ids of every order type descending from it.
	SubtypeIDs(id kernel.UUID) []kernel.UUID
}

// MetricsRecorder receives lifecycle events for monitoring.
type MetricsRecorder interface {
	OrderSaved(kind order.Kind, action order.Action)
	OrderRejected(reason string)
	OrderAutoDiscontinued(kind order.Kind)
	OrderPurged(cascade bool, observations int64)
	SetActiveOrders(count int64)
}
