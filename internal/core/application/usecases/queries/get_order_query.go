package queries

import (
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrGetOrderByUUIDQueryIsNotConstructed = errors.New(
		"GetOrderByUUIDQuery must be created via NewGetOrderByUUIDQuery constructor",
	)
	ErrGetOrderByOrderNumberQueryIsNotConstructed = errors.New(
		"GetOrderByOrderNumberQuery must be created via NewGetOrderByOrderNumberQuery constructor",
	)
)

// GetOrderByUUIDQuery looks up a single order by its uuid.
type GetOrderByUUIDQuery struct {
	id    kernel.UUID
	guard guard.ConstructorGuard
}

// NewGetOrderByUUIDQuery creates a lookup for the order id.
func NewGetOrderByUUIDQuery(id kernel.UUID) (GetOrderByUUIDQuery, error) {
	if err := id.Validate(); err != nil {
		return GetOrderByUUIDQuery{}, err
	}
	return GetOrderByUUIDQuery{id: id, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderByUUIDQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderByUUIDQueryIsNotConstructed)
}

func (q GetOrderByUUIDQuery) ID() kernel.UUID {
	return q.id
}

// GetOrderByOrderNumberQuery looks up a single order by its order number.
type GetOrderByOrderNumberQuery struct {
	number string
	guard  guard.ConstructorGuard
}

// NewGetOrderByOrderNumberQuery creates a lookup for the order number.
func NewGetOrderByOrderNumberQuery(number string) (GetOrderByOrderNumberQuery, error) {
	if number == "" {
		return GetOrderByOrderNumberQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}
	return GetOrderByOrderNumberQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderByOrderNumberQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderByOrderNumberQueryIsNotConstructed)
}

func (q GetOrderByOrderNumberQuery) OrderNumber() string {
	return q.number
}
