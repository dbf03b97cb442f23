package commands

import (
	"context"

	"orderentry/internal/core/domain/model/order"
)

// OrderSaver saves a built order. SaveOrderCommandHandler implements it.
type OrderSaver interface {
	Handle(ctx context.Context, cmd SaveOrderCommand) (*order.Order, error)
}

// DiscontinueOrderCommandHandler stops an order by saving a DISCONTINUE order
// against it. The discontinuation is drafted with order.CloneForDiscontinuing,
// so it keeps the concept and drug of the stopped order, and is then saved
// through the regular save path and its lifecycle rules. Whatever happens to
// the target between drafting and saving is judged by the save path.
//
// Example:
//
//	handler := NewDiscontinueOrderCommandHandler(uowFactory, saveHandler)
//	cmd, _ := NewDiscontinueOrderCommand(orderUUID, DiscontinueReason{NonCoded: "resolved"}, nil, nil, nil)
//
//	dc, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrCannotActOnDiscontinuation) {
//	    // the order was a discontinuation itself
//	}
type DiscontinueOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	saver      OrderSaver
}

// NewDiscontinueOrderCommandHandler creates a handler for discontinuations.
func NewDiscontinueOrderCommandHandler(uowFactory OrderUoWFactory, saver OrderSaver) DiscontinueOrderCommandHandler {
	return DiscontinueOrderCommandHandler{
		uowFactory: uowFactory,
		saver:      saver,
	}
}

// Handle drafts and saves the discontinuation.
// Returns the saved DISCONTINUE order.
func (h *DiscontinueOrderCommandHandler) Handle(ctx context.Context, cmd DiscontinueOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Read outside the save transaction only to draft the discontinuation.
	// The save locks and re-reads the target and checks it again.
	target, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	draft := order.CloneForDiscontinuing(target)
	draft.OrderReason = cmd.Reason().Coded
	draft.OrderReasonNonCoded = cmd.Reason().NonCoded
	draft.StartDate = cmd.DiscontinueDate()
	if orderer := cmd.Orderer(); orderer != nil {
		draft.Orderer = orderer
	}
	if encounter := cmd.Encounter(); encounter != nil {
		draft.SetEncounter(encounter)
	}

	dc, err := draft.Build()
	if err != nil {
		return nil, err
	}

	saveCmd, err := NewSaveOrderCommand(dc, order.Context{DiscontinueDate: cmd.DiscontinueDate()})
	if err != nil {
		return nil, err
	}
	return h.saver.Handle(ctx, saveCmd)
}
