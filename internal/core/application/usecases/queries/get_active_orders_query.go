package queries

import (
	"errors"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery lists the orders in effect for a patient.
//
// Example:
//
//	query, err := NewGetActiveOrdersQuery(patientID, &drugOrderTypeID, nil, nil)
//	if err != nil {
//	    return err
//	}
//	active, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct {
	patient     kernel.UUID
	orderType   *kernel.UUID
	careSetting *kernel.UUID
	asOf        *time.Time

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for the active orders of patient.
//
// Parameters:
//   - patient: whose orders to list
//   - orderType: optional; sub-types of it are included
//   - careSetting: optional care setting restriction
//   - asOf: optional reference instant, nil for now
func NewGetActiveOrdersQuery(
	patient kernel.UUID,
	orderType *kernel.UUID,
	careSetting *kernel.UUID,
	asOf *time.Time,
) (GetActiveOrdersQuery, error) {
	if err := patient.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	if asOf != nil && asOf.IsZero() {
		return GetActiveOrdersQuery{}, errs.NewValueIsInvalidError("asOf")
	}

	return GetActiveOrdersQuery{
		patient:     patient,
		orderType:   orderType,
		careSetting: careSetting,
		asOf:        asOf,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetActiveOrdersQueryIsNotConstructed if validation fails.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

func (q GetActiveOrdersQuery) Patient() kernel.UUID { return q.patient }

// OrderType returns the order type filter, nil for any type.
func (q GetActiveOrdersQuery) OrderType() *kernel.UUID { return q.orderType }

func (q GetActiveOrdersQuery) CareSetting() *kernel.UUID { return q.careSetting }

// AsOf returns the reference instant, nil for now.
func (q GetActiveOrdersQuery) AsOf() *time.Time { return q.asOf }
