// Package jobs runs the scheduled maintenance of the tracking service on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. PartnerReconciliationJob repairs delivery partners whose availability or
//     current order disagrees with the orders table.
//  2. AssignmentRefreshJob reloads the broadcaster's order to partner cache
//     from storage.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewPartnerReconciliationJob(reconcileHandler, "0 */5 * * * *", logger),
//		jobs.NewAssignmentRefreshJob(orders, cache, "*/30 * * * * *", logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Specs have six fields, the first being seconds. A tick is skipped while the
// previous run of the same job is still in progress.
//
// # Error Handling
//
// Run logs failures and returns; the next tick tries again.
package jobs
