package commands

import (
	"errors"
	"time"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrDiscontinueOrderCommandIsNotConstructed = errors.New(
		"DiscontinueOrderCommand must be created via NewDiscontinueOrderCommand constructor",
	)
	ErrReasonIsRequired = errors.New("a coded or non-coded reason is required")
)

// DiscontinueOrderCommand represents a request to stop an active order.
//
// Example:
//
//	cmd, err := NewDiscontinueOrderCommand(orderUUID, DiscontinueReason{NonCoded: "adverse reaction"}, nil, orderer, encounter)
//	if err != nil {
//	    return err
//	}
//	dc, err := handler.Handle(ctx, cmd)
type DiscontinueOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	reason          DiscontinueReason
	discontinueDate *time.Time
	orderer         *clinical.Provider
	encounter       *clinical.Encounter

	guard guard.ConstructorGuard
}

// DiscontinueReason is why an order is stopped: a coded reason, free text, or both.
type DiscontinueReason struct {
	Coded    *clinical.Concept
	NonCoded string
}

// NewDiscontinueOrderCommand creates a command to discontinue the order orderID.
//
// Parameters:
//   - orderID: uuid of the order to stop
//   - reason: coded and/or non-coded reason, at least one is required
//   - discontinueDate: stop instant, nil for now; must not be in the future
//   - orderer, encounter: who stops it and in which encounter; nil keeps those
//     of the order being stopped
func NewDiscontinueOrderCommand(
	orderID kernel.UUID,
	reason DiscontinueReason,
	discontinueDate *time.Time,
	orderer *clinical.Provider,
	encounter *clinical.Encounter,
) (DiscontinueOrderCommand, error) {
	cmd := DiscontinueOrderCommand{
		orderer:   orderer,
		encounter: encounter,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
		cmd.setDiscontinueDate(discontinueDate),
	); err != nil {
		return DiscontinueOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDiscontinueOrderCommandIsNotConstructed if validation fails.
func (c DiscontinueOrderCommand) Validate() error {
	return c.guard.Validate(ErrDiscontinueOrderCommandIsNotConstructed)
}

func (c DiscontinueOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c DiscontinueOrderCommand) Reason() DiscontinueReason {
	return c.reason
}

// DiscontinueDate returns the requested stop instant, nil for now.
func (c DiscontinueOrderCommand) DiscontinueDate() *time.Time {
	return c.discontinueDate
}

func (c DiscontinueOrderCommand) Orderer() *clinical.Provider {
	return c.orderer
}

func (c DiscontinueOrderCommand) Encounter() *clinical.Encounter {
	return c.encounter
}

func (c *DiscontinueOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *DiscontinueOrderCommand) setReason(reason DiscontinueReason) error {
	if reason.Coded == nil && reason.NonCoded == "" {
		return ErrReasonIsRequired
	}

	c.reason = reason
	return nil
}

func (c *DiscontinueOrderCommand) setDiscontinueDate(at *time.Time) error {
	if at == nil {
		return nil
	}
	if at.IsZero() {
		return errs.NewValueIsInvalidError("discontinueDate")
	}

	d := *at
	c.discontinueDate = &d
	return nil
}
