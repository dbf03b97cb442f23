// Package postgres provides the GORM-based Unit of Work and the sequence-backed
// order number generator.
//
// A save stamps the stop date of the order being replaced and inserts its
// successor; a purge removes observations and the order row. Each of these runs
// in one unit of work so that either every write lands or none does.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, clock)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	repo := uow.OrderRepository()
//	if err := repo.UpdateStopDate(ctx, stopped); err != nil {
//	    return err
//	}
//	if _, err := repo.Add(ctx, next); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance owns at most one transaction
//   - Multiple goroutines should use separate UnitOfWork instances
package postgres

import (
	"context"

	"orderentry/internal/adapters/out/postgres/obsrepo"
	"orderentry/internal/adapters/out/postgres/orderrepo"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one GORM
// connection pool. Every Create returns a fresh instance, so concurrent
// requests never share a transaction.
type GormUnitOfWorkFactory struct {
	db    *gorm.DB
	clock kernel.Clock
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The clock is handed to the repositories for creation timestamps; nil means
// the system clock.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, nil)
func NewGormUnitOfWorkFactory(db *gorm.DB, clock kernel.Clock) *GormUnitOfWorkFactory {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return &GormUnitOfWorkFactory{db: db, clock: clock}
}

// Create produces a new UnitOfWork with no open transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:    f.db,
		clock: f.clock,
	}
}

// GormUnitOfWork coordinates one database transaction across the order and
// observation repositories.
type GormUnitOfWork struct {
	db    *gorm.DB
	tx    *gorm.DB
	clock kernel.Clock
}

// Begin opens the transaction. Calling it again while a transaction is open is
// a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit makes the transaction's writes permanent and closes it.
// Returns gorm.ErrInvalidTransaction if no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction's writes and closes it.
// Returns gorm.ErrInvalidTransaction if no transaction is open, which is the
// case after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order repository bound to the open transaction,
// or to the connection pool when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow.clock)
}

// ObservationRepository returns an observation repository bound to the open
// transaction, or to the connection pool when none is open.
func (uow *GormUnitOfWork) ObservationRepository() ports.ObservationRepository {
	return obsrepo.NewGormObservationRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
