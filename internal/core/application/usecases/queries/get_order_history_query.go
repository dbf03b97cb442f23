package queries

import (
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrGetOrderHistoryByConceptQueryIsNotConstructed = errors.New(
		"GetOrderHistoryByConceptQuery must be created via NewGetOrderHistoryByConceptQuery constructor",
	)
	ErrGetOrderHistoryByOrderNumberQueryIsNotConstructed = errors.New(
		"GetOrderHistoryByOrderNumberQuery must be created via NewGetOrderHistoryByOrderNumberQuery constructor",
	)
)

// GetOrderHistoryByConceptQuery lists every order a patient had for a concept.
type GetOrderHistoryByConceptQuery struct {
	patient kernel.UUID
	concept kernel.UUID
	guard   guard.ConstructorGuard
}

// NewGetOrderHistoryByConceptQuery creates a history query for patient and concept.
func NewGetOrderHistoryByConceptQuery(patient, concept kernel.UUID) (GetOrderHistoryByConceptQuery, error) {
	if err := errors.Join(patient.Validate(), concept.Validate()); err != nil {
		return GetOrderHistoryByConceptQuery{}, err
	}
	return GetOrderHistoryByConceptQuery{
		patient: patient,
		concept: concept,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryByConceptQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryByConceptQueryIsNotConstructed)
}

func (q GetOrderHistoryByConceptQuery) Patient() kernel.UUID { return q.patient }
func (q GetOrderHistoryByConceptQuery) Concept() kernel.UUID { return q.concept }

// GetOrderHistoryByOrderNumberQuery lists the revision chain ending at an order.
type GetOrderHistoryByOrderNumberQuery struct {
	number string
	guard  guard.ConstructorGuard
}

// NewGetOrderHistoryByOrderNumberQuery creates a chain query starting at the
// order with the given number.
func NewGetOrderHistoryByOrderNumberQuery(number string) (GetOrderHistoryByOrderNumberQuery, error) {
	if number == "" {
		return GetOrderHistoryByOrderNumberQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}
	return GetOrderHistoryByOrderNumberQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryByOrderNumberQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryByOrderNumberQueryIsNotConstructed)
}

func (q GetOrderHistoryByOrderNumberQuery) OrderNumber() string { return q.number }
