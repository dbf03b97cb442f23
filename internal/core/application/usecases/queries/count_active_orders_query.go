package queries

import (
	"errors"
	"time"

	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrCountActiveOrdersQueryIsNotConstructed = errors.New(
		"CountActiveOrdersQuery must be created via NewCountActiveOrdersQuery constructor",
	)
)

// CountActiveOrdersQuery counts the orders in effect across all patients.
// It feeds the active orders gauge.
type CountActiveOrdersQuery struct {
	asOf  *time.Time
	guard guard.ConstructorGuard
}

// NewCountActiveOrdersQuery creates a count as of asOf, nil for now.
func NewCountActiveOrdersQuery(asOf *time.Time) (CountActiveOrdersQuery, error) {
	if asOf != nil && asOf.IsZero() {
		return CountActiveOrdersQuery{}, errs.NewValueIsInvalidError("asOf")
	}
	return CountActiveOrdersQuery{asOf: asOf, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrCountActiveOrdersQueryIsNotConstructed if validation fails.
func (q CountActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrCountActiveOrdersQueryIsNotConstructed)
}

func (q CountActiveOrdersQuery) AsOf() *time.Time {
	return q.asOf
}
