package queries

import (
	"context"
	"errors"
	"fmt"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"
)

// GetOrderHistoryQueryHandler serves order histories.
//
// By order number, the history is the chain of previous orders: each link is
// resolved with an explicit lookup, starting at the named order. The walk ends
// at an order without a previous order, at a link whose order was purged, or
// at the first uuid seen twice.
//
// Example:
//
//	handler := NewGetOrderHistoryQueryHandler(orderRepo, clock)
//	query, _ := NewGetOrderHistoryByOrderNumberQuery("ORD-1042")
//
//	chain, err := handler.HandleByOrderNumber(ctx, query)
//	// chain[0] is ORD-1042, chain[len(chain)-1] the order that started it
type GetOrderHistoryQueryHandler struct {
	reader OrderReader
	clock  kernel.Clock
}

// NewGetOrderHistoryQueryHandler creates a handler for order histories.
func NewGetOrderHistoryQueryHandler(reader OrderReader, clock kernel.Clock) GetOrderHistoryQueryHandler {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return GetOrderHistoryQueryHandler{reader: reader, clock: clock}
}

// HandleByConcept returns the patient's orders for the concept, newest first.
func (h GetOrderHistoryQueryHandler) HandleByConcept(
	ctx context.Context,
	query GetOrderHistoryByConceptQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.FindByConcept(ctx, query.Patient(), query.Concept())
	if err != nil {
		return nil, err
	}
	return newOrderResponses(orders, h.clock.Now()), nil
}

// HandleByOrderNumber returns the named order followed by its predecessors,
// newest first.
func (h GetOrderHistoryQueryHandler) HandleByOrderNumber(
	ctx context.Context,
	query GetOrderHistoryByOrderNumberQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	head, err := h.reader.GetByOrderNumber(ctx, query.OrderNumber())
	if err != nil {
		return nil, err
	}

	chain := []*order.Order{head}
	seen := map[kernel.UUID]struct{}{head.UUID(): {}}
	for ref := head.PreviousOrder(); ref != nil; {
		if _, loop := seen[*ref]; loop {
			break
		}

		previous, getErr := h.reader.Get(ctx, *ref)
		if errors.Is(getErr, errs.ErrObjectNotFound) {
			break
		}
		if getErr != nil {
			return nil, fmt.Errorf("failed to load order %s: %w", ref, getErr)
		}

		seen[previous.UUID()] = struct{}{}
		chain = append(chain, previous)
		ref = previous.PreviousOrder()
	}

	return newOrderResponses(chain, h.clock.Now()), nil
}
