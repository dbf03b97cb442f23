package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"orderentry/internal/adapters/out/metrics"
	"orderentry/internal/adapters/out/ordernumber"
	"orderentry/internal/adapters/out/postgres"
	"orderentry/internal/adapters/out/refdata"
	"orderentry/internal/core/application/usecases/commands"
	"orderentry/internal/core/application/usecases/queries"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/services"
	"orderentry/internal/core/ports"
	"orderentry/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	clock      kernel.Clock
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	refData    *refdata.Registry
	metrics    *metrics.PrometheusRecorder
	numbers    ports.OrderNumberGenerator
}

// NewCompositionRoot wires the adapters around gormDB. The reference data is
// loaded with the built-in order types.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	clock := kernel.SystemClock{}

	registry := refdata.NewRegistry()
	if err := refdata.LoadDefaults(registry); err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		clock:      clock,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, clock),
		refData:    registry,
		metrics:    metrics.New(),
	}

	switch config.OrderNumberSource {
	case OrderNumberSourceTimestamp:
		c.numbers = ordernumber.NewTimestampGenerator(config.OrderNumberPrefix, clock)
	default:
		c.numbers = postgres.NewSequenceOrderNumberGenerator(gormDB, config.OrderNumberPrefix)
	}

	return c, nil
}

// Migrate creates the order number sequence when the sequence source is used.
func (c *CompositionRoot) Migrate(ctx context.Context) error {
	if seq, ok := c.numbers.(*postgres.SequenceOrderNumberGenerator); ok {
		return seq.Migrate(ctx)
	}
	return nil
}

func (c *CompositionRoot) Metrics() *metrics.PrometheusRecorder {
	return c.metrics
}

func (c *CompositionRoot) CreateSaveOrderCommandHandler() (*commands.SaveOrderCommandHandler, error) {
	validator, err := services.NewSaveValidator(c.refData, c.clock)
	if err != nil {
		return nil, err
	}
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSaveOrderCommandHandler(f, validator, c.numbers, c.metrics, c.clock, c.logger), nil
}

func (c *CompositionRoot) CreateDiscontinueOrderCommandHandler() (*commands.DiscontinueOrderCommandHandler, error) {
	saver, err := c.CreateSaveOrderCommandHandler()
	if err != nil {
		return nil, err
	}
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	handler := commands.NewDiscontinueOrderCommandHandler(f, saver)
	return &handler, nil
}

func (c *CompositionRoot) CreatePurgeOrderCommandHandler() *commands.PurgeOrderCommandHandler {
	var f commands.PurgeUoWFactory = FuncPurgeUoWFactory(func() commands.PurgeUoW {
		return c.uowFactory.Create()
	})
	handler := commands.NewPurgeOrderCommandHandler(f, c.metrics)
	return &handler
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orderReader(), c.clock)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.orderReader(), c.refData, c.clock)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.orderReader(), c.clock)
}

func (c *CompositionRoot) CreateCountActiveOrdersQueryHandler() queries.CountActiveOrdersQueryHandler {
	return queries.NewCountActiveOrdersQueryHandler(c.gormDB, c.clock)
}

// CreateJobManager wires the scheduled jobs. The reload job rebuilds the
// registry from the built-in order types.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	reload := func(context.Context) error {
		return c.refData.Reload(refdata.LoadDefaults)
	}
	return jobs.NewJobManager(
		c.CreateCountActiveOrdersQueryHandler(),
		c.metrics,
		reload,
		jobs.Schedules{
			ActiveOrdersGauge:   c.config.ActiveOrdersGaugeSchedule,
			ReferenceDataReload: c.config.ReferenceDataReloadSchedule,
		},
		c.logger,
	)
}

// orderReader reads outside any transaction.
func (c *CompositionRoot) orderReader() queries.OrderReader {
	return c.uowFactory.Create().OrderRepository()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPurgeUoWFactory func() commands.PurgeUoW

func (f FuncPurgeUoWFactory) Create() commands.PurgeUoW {
	return f()
}
