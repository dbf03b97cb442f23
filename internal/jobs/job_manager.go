package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	gaugeJob  *ActiveOrdersGaugeJob
	reloadJob *ReferenceDataReloadJob
}

// Schedules holds the cron expressions of the jobs.
type Schedules struct {
	ActiveOrdersGauge   string
	ReferenceDataReload string
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	counter ActiveOrdersCounter,
	gauge ActiveOrdersGauge,
	reload ReloadFunc,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		gaugeJob:  NewActiveOrdersGaugeJob(counter, gauge, schedules.ActiveOrdersGauge, logger),
		reloadJob: NewReferenceDataReloadJob(reload, schedules.ReferenceDataReload, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reloadJob.Start(); err != nil {
		return fmt.Errorf("failed to start reference data reload job: %w", err)
	}

	if err := jm.gaugeJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.reloadJob.Stop()
		return fmt.Errorf("failed to start active orders gauge job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.gaugeJob.Stop()
	jm.reloadJob.Stop()
}
