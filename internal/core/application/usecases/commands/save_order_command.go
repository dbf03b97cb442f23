package commands

import (
	"errors"

	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrSaveOrderCommandIsNotConstructed = errors.New(
		"SaveOrderCommand must be created via NewSaveOrderCommand constructor",
	)
)

// SaveOrderCommand represents a request to persist a built order: a new order,
// a revision, a renewal or a discontinuation.
//
// Example:
//
//	draft := order.CloneForRevision(existing)
//	draft.Instructions = "take after meals"
//	revision, err := draft.Build()
//	if err != nil {
//	    return err
//	}
//
//	cmd, err := NewSaveOrderCommand(revision, order.Context{})
//	if err != nil {
//	    return fmt.Errorf("invalid save request: %w", err)
//	}
//	saved, err := handler.Handle(ctx, cmd)
type SaveOrderCommand struct { //nolint:recvcheck //using for validation
	order   *order.Order
	context order.Context

	guard guard.ConstructorGuard
}

// NewSaveOrderCommand creates a command to save o.
// The order must have been built from a draft; oc carries the optional
// preassigned order number and discontinue date.
func NewSaveOrderCommand(o *order.Order, oc order.Context) (SaveOrderCommand, error) {
	cmd := SaveOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrder(o),
		cmd.setContext(oc),
	); err != nil {
		return SaveOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSaveOrderCommandIsNotConstructed if validation fails.
func (c SaveOrderCommand) Validate() error {
	return c.guard.Validate(ErrSaveOrderCommandIsNotConstructed)
}

// Order returns the order to save.
func (c SaveOrderCommand) Order() *order.Order {
	return c.order
}

// Context returns the save options.
func (c SaveOrderCommand) Context() order.Context {
	return c.context
}

func (c *SaveOrderCommand) setOrder(o *order.Order) error {
	if o == nil {
		return errs.NewValueIsRequiredError("order")
	}
	if err := o.Validate(); err != nil {
		return err
	}

	c.order = o
	return nil
}

func (c *SaveOrderCommand) setContext(oc order.Context) error {
	if oc.DiscontinueDate != nil && oc.DiscontinueDate.IsZero() {
		return errs.NewValueIsInvalidError("discontinueDate")
	}

	c.context = oc
	return nil
}
