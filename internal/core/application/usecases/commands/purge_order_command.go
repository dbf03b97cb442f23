package commands

import (
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/guard"
)

var (
	ErrPurgeOrderCommandIsNotConstructed = errors.New(
		"PurgeOrderCommand must be created via NewPurgeOrderCommand constructor",
	)
)

// PurgeOrderCommand represents a request to delete an order for good.
// With cascade, observations recorded against the order are deleted as well;
// without it they are kept and lose their order reference.
type PurgeOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	cascade bool

	guard guard.ConstructorGuard
}

// NewPurgeOrderCommand creates a command to purge the order orderID.
func NewPurgeOrderCommand(orderID kernel.UUID, cascade bool) (PurgeOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return PurgeOrderCommand{}, err
	}

	return PurgeOrderCommand{
		orderID: orderID,
		cascade: cascade,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrPurgeOrderCommandIsNotConstructed if validation fails.
func (c PurgeOrderCommand) Validate() error {
	return c.guard.Validate(ErrPurgeOrderCommandIsNotConstructed)
}

func (c PurgeOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Cascade reports whether dependent observations are deleted too.
func (c PurgeOrderCommand) Cascade() bool {
	return c.cascade
}
