package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/services"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"
)

// OrderSaveValidator decides whether an order may be saved and what the save
// must write. services.SaveValidator implements it.
type OrderSaveValidator interface {
	Validate(req services.SaveRequest) (*services.SavePlan, error)
}

// SaveOrderCommandHandler persists new orders, revisions, renewals and
// discontinuations.
//
// Within one transaction it resolves the previous order (or, for orders
// without one, the patient's active orders), runs the save validator, assigns
// an order number, stamps the stop date of the order being replaced and
// inserts the new order. Nothing is written when validation fails.
//
// Example:
//
//	handler := NewSaveOrderCommandHandler(uowFactory, validator, numbers, recorder, clock, logger)
//	cmd, _ := NewSaveOrderCommand(newOrder, order.Context{})
//
//	saved, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrLifecycle) {
//	    // rejected by a lifecycle rule, report it to the user
//	}
type SaveOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	validator  OrderSaveValidator
	numbers    ports.OrderNumberGenerator
	metrics    ports.MetricsRecorder
	clock      kernel.Clock
	logger     *slog.Logger
}

// NewSaveOrderCommandHandler creates a handler for order saves.
func NewSaveOrderCommandHandler(
	uowFactory OrderUoWFactory,
	validator OrderSaveValidator,
	numbers ports.OrderNumberGenerator,
	metrics ports.MetricsRecorder,
	clock kernel.Clock,
	logger *slog.Logger,
) *SaveOrderCommandHandler {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return &SaveOrderCommandHandler{
		uowFactory: uowFactory,
		validator:  validator,
		numbers:    numbers,
		metrics:    metrics,
		clock:      clock,
		logger:     logger.With("component", "save_order_handler"),
	}
}

// Handle validates and persists the order of cmd.
// Returns the stored order, carrying its storage identity and order number.
func (h *SaveOrderCommandHandler) Handle(ctx context.Context, cmd SaveOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	req, err := h.prepare(ctx, orderRepo, cmd)
	if err != nil {
		return nil, err
	}

	plan, err := h.validator.Validate(req)
	if err != nil {
		h.metrics.OrderRejected(order.RejectionReason(err))
		return nil, err
	}

	toSave := plan.Order
	if toSave.OrderNumber() == "" {
		number, numErr := h.numbers.NextOrderNumber(ctx, cmd.Context())
		if numErr != nil {
			return nil, fmt.Errorf("failed to assign order number: %w", numErr)
		}
		if toSave, err = toSave.WithOrderNumber(number); err != nil {
			return nil, err
		}
	}

	if plan.Stopped != nil {
		if err = orderRepo.UpdateStopDate(ctx, plan.Stopped); err != nil {
			return nil, fmt.Errorf("failed to stop previous order: %w", err)
		}
	}

	saved, err := orderRepo.Add(ctx, toSave)
	if err != nil {
		return nil, fmt.Errorf("failed to add order: %w", err)
	}

	if err = uow.Commit(ctx); err != nil {
		h.logger.ErrorContext(ctx, "Order save was not committed", "order", toSave.UUID().String(), "error", err)
		return nil, err
	}

	h.metrics.OrderSaved(saved.Kind(), saved.Action())
	if plan.AutoDiscontinued {
		h.metrics.OrderAutoDiscontinued(saved.Kind())
		h.logger.InfoContext(ctx, "Active order discontinued by a new order for the same orderable",
			"stopped", plan.Stopped.UUID().String(),
			"order", saved.UUID().String(),
			"orderNumber", saved.OrderNumber(),
		)
	}

	return saved, nil
}

// prepare loads the orders the validator compares against: the referenced
// previous order, locked for the rest of the transaction, or the patient's
// active orders when there is none.
func (h *SaveOrderCommandHandler) prepare(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	cmd SaveOrderCommand,
) (services.SaveRequest, error) {
	o := cmd.Order()
	req := services.SaveRequest{Order: o, Context: cmd.Context()}

	if ref := o.PreviousOrder(); ref != nil {
		previous, err := orderRepo.GetForUpdate(ctx, *ref)
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			// left nil: the validator reports the missing previous order
		case err != nil:
			return req, fmt.Errorf("failed to load previous order: %w", err)
		default:
			req.Previous = previous
		}
		return req, nil
	}

	// the validator rejects these before looking at active orders
	patient := o.Patient()
	if patient == nil || o.IsPersisted() {
		return req, nil
	}

	filter := ports.ActiveOrdersFilter{Patient: patient.ID, AsOf: h.clock.Now()}
	if cs := o.CareSetting(); cs != nil {
		id := cs.ID
		filter.CareSetting = &id
	}
	active, err := orderRepo.FindActive(ctx, filter)
	if err != nil {
		return req, fmt.Errorf("failed to load active orders: %w", err)
	}
	req.ActiveOrders = active
	return req, nil
}
