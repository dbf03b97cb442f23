package commands

import (
	"context"

	"orderentry/internal/core/ports"
)

// PurgeOrderCommandHandler deletes an order and deals with its observations
// in the same transaction.
type PurgeOrderCommandHandler struct {
	uowFactory PurgeUoWFactory
	metrics    ports.MetricsRecorder
}

// NewPurgeOrderCommandHandler creates a handler for order purges.
func NewPurgeOrderCommandHandler(uowFactory PurgeUoWFactory, metrics ports.MetricsRecorder) PurgeOrderCommandHandler {
	return PurgeOrderCommandHandler{
		uowFactory: uowFactory,
		metrics:    metrics,
	}
}

// Handle processes the purge command.
// Returns errs.ObjectNotFoundError when the order does not exist.
func (h *PurgeOrderCommandHandler) Handle(ctx context.Context, cmd PurgeOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	obsRepo := uow.ObservationRepository()
	var affected int64
	if cmd.Cascade() {
		affected, err = obsRepo.DeleteByOrder(ctx, target.UUID())
	} else {
		affected, err = obsRepo.DetachOrder(ctx, target.UUID())
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Delete(ctx, target); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.OrderPurged(cmd.Cascade(), affected)
	return nil
}
