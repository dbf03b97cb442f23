package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// ReloadFunc replaces the reference data the lifecycle rules consult.
type ReloadFunc func(ctx context.Context) error

// ReferenceDataReloadJob rebuilds the order type registry on a schedule, so
// order types maintained elsewhere show up without a restart.
type ReferenceDataReloadJob struct {
	reload   ReloadFunc
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReferenceDataReloadJob creates the job. An empty schedule disables it.
func NewReferenceDataReloadJob(reload ReloadFunc, schedule string, logger *slog.Logger) *ReferenceDataReloadJob {
	return &ReferenceDataReloadJob{
		reload:   reload,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "reference_data_reload_job"),
	}
}

// Start registers the reload on the schedule and starts the scheduler.
func (j *ReferenceDataReloadJob) Start() error {
	if j.schedule == "" {
		j.logger.InfoContext(context.Background(), "Reference data reload job disabled")
		return nil
	}

	_, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reference data reload job started", "schedule", j.schedule)
	return nil
}

// Run performs one reload.
func (j *ReferenceDataReloadJob) Run(ctx context.Context) error {
	if err := j.reload(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Reference data reload failed", "error", err)
		return err
	}
	return nil
}

// Stop stops the scheduler and waits for a running reload to finish.
func (j *ReferenceDataReloadJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reference data reload job stopped")
}
