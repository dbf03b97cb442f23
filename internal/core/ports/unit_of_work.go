package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the atomic boundary of a save: stamping the previous order's
// stop date and inserting the new order either both commit or neither does.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Handlers defer it and
	// ignore its error, which is returned when nothing is left to roll back.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// ObservationRepository returns an ObservationRepository bound to the current transaction.
	ObservationRepository() ObservationRepository
}
