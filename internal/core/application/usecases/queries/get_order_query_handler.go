package queries

import (
	"context"

	"orderentry/internal/core/domain/model/kernel"
)

// GetOrderQueryHandler serves single-order lookups by uuid or order number.
// Unknown orders are reported as errs.ObjectNotFoundError.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(orderRepo, clock)
//	query, _ := NewGetOrderByOrderNumberQuery("ORD-1042")
//
//	resp, err := handler.HandleByOrderNumber(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return echo.ErrNotFound
//	}
type GetOrderQueryHandler struct {
	reader OrderReader
	clock  kernel.Clock
}

// NewGetOrderQueryHandler creates a handler for single-order lookups.
func NewGetOrderQueryHandler(reader OrderReader, clock kernel.Clock) GetOrderQueryHandler {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return GetOrderQueryHandler{reader: reader, clock: clock}
}

// HandleByUUID returns the order with the queried uuid.
func (h GetOrderQueryHandler) HandleByUUID(ctx context.Context, query GetOrderByUUIDQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.reader.Get(ctx, query.ID())
	if err != nil {
		return OrderResponse{}, err
	}
	return newOrderResponse(o, h.clock.Now()), nil
}

// HandleByOrderNumber returns the order with the queried order number.
func (h GetOrderQueryHandler) HandleByOrderNumber(
	ctx context.Context,
	query GetOrderByOrderNumberQuery,
) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.reader.GetByOrderNumber(ctx, query.OrderNumber())
	if err != nil {
		return OrderResponse{}, err
	}
	return newOrderResponse(o, h.clock.Now()), nil
}
