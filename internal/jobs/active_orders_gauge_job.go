package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderentry/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// DefaultActiveOrdersGaugeSchedule refreshes the gauge once a minute.
const DefaultActiveOrdersGaugeSchedule = "0 * * * * *"

type (
	// ActiveOrdersCounter counts the orders active at an instant.
	// queries.CountActiveOrdersQueryHandler implements it.
	ActiveOrdersCounter interface {
		Handle(ctx context.Context, query queries.CountActiveOrdersQuery) (int64, error)
	}

	// ActiveOrdersGauge receives the count. metrics.PrometheusRecorder implements it.
	ActiveOrdersGauge interface {
		SetActiveOrders(count int64)
	}
)

// ActiveOrdersGaugeJob periodically counts the active orders and publishes the
// result on the orders_active gauge.
type ActiveOrdersGaugeJob struct {
	counter  ActiveOrdersCounter
	gauge    ActiveOrdersGauge
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewActiveOrdersGaugeJob creates the job. schedule is a six-field cron
// expression (with seconds); empty means DefaultActiveOrdersGaugeSchedule.
func NewActiveOrdersGaugeJob(
	counter ActiveOrdersCounter,
	gauge ActiveOrdersGauge,
	schedule string,
	logger *slog.Logger,
) *ActiveOrdersGaugeJob {
	if schedule == "" {
		schedule = DefaultActiveOrdersGaugeSchedule
	}
	return &ActiveOrdersGaugeJob{
		counter:  counter,
		gauge:    gauge,
		schedule: schedule,
		timeout:  30 * time.Second,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "active_orders_gauge_job"),
	}
}

// Start registers the refresh on the schedule and starts the scheduler.
func (j *ActiveOrdersGaugeJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_ = j.Run(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Active orders gauge job started", "schedule", j.schedule)
	return nil
}

// Run performs one refresh. A failed count leaves the gauge untouched.
func (j *ActiveOrdersGaugeJob) Run(ctx context.Context) error {
	query, err := queries.NewCountActiveOrdersQuery(nil)
	if err != nil {
		return err
	}

	count, err := j.counter.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Active orders gauge job failed", "error", err)
		return err
	}

	j.gauge.SetActiveOrders(count)
	j.logger.DebugContext(ctx, "Active orders counted", "count", count)
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (j *ActiveOrdersGaugeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Active orders gauge job stopped")
}
