package queries

import (
	"context"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/ports"
)

// GetActiveOrdersQueryHandler lists a patient's active orders. An order type
// filter is widened to every declared sub-type before the lookup.
type GetActiveOrdersQueryHandler struct {
	reader  OrderReader
	refData ports.ReferenceData
	clock   kernel.Clock
}

// NewGetActiveOrdersQueryHandler creates a handler for active order listings.
func NewGetActiveOrdersQueryHandler(
	reader OrderReader,
	refData ports.ReferenceData,
	clock kernel.Clock,
) GetActiveOrdersQueryHandler {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return GetActiveOrdersQueryHandler{reader: reader, refData: refData, clock: clock}
}

// Handle returns the active orders, oldest start first.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	at := h.clock.Now()
	if asOf := query.AsOf(); asOf != nil {
		at = *asOf
	}
	filter := ports.ActiveOrdersFilter{
		Patient:     query.Patient(),
		CareSetting: query.CareSetting(),
		AsOf:        at,
	}
	if t := query.OrderType(); t != nil {
		filter.OrderTypes = h.refData.SubtypeIDs(*t)
	}

	orders, err := h.reader.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newOrderResponses(orders, at), nil
}
