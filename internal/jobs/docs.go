// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules are six-field expressions, seconds first.
//
// # Available Jobs
//
// 1. ActiveOrdersGaugeJob - counts the orders active now and publishes the result on the orders_active gauge
// 2. ReferenceDataReloadJob - rebuilds the order type registry; disabled when its schedule is empty
//
// # Usage
//
//	jobManager := jobs.NewJobManager(countHandler, recorder, reload, jobs.Schedules{
//		ActiveOrdersGauge: "0 * * * * *",
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed count or reload is logged and leaves the previous state in place
// - Failed job starts will stop any already running jobs
package jobs
