// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"orderentry/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Stamping a previous order's stop date and inserting its successor always
// happen inside one of these transactions.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ObservationRepoFactory provides access to observation repository within a transaction.
	ObservationRepoFactory interface {
		ObservationRepository() ports.ObservationRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used by saves and discontinuations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PurgeUoW manages transactions that remove an order together with the
	// observations recorded against it.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   obsRepo := uow.ObservationRepository()
	//   orderRepo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	PurgeUoW interface {
		TxManager
		OrderRepoFactory
		ObservationRepoFactory
	}

	// PurgeUoWFactory creates new purge unit of work instances.
	PurgeUoWFactory interface {
		Create() PurgeUoW
	}
)
