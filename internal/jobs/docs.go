// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// The cascade itself is event driven; the jobs only cover what no request
// triggers.
//
// # Available Jobs
//
// 1. CascadeTimerJob - fires cascade timers whose deadline has passed, advancing
// past candidates that never answered or a gateway that failed
// 2. CorrelationSweepJob - deletes correlation entries past their TTL
//
// # Usage
//
//	jobManager := jobs.NewJobManager(fireDueTimersHandler, sweepHandler, jobs.Schedules{}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron syntax with seconds. The timer job defaults
// to "* * * * * *" and skips a run while the previous one is still going; the
// sweep defaults to once a minute.
//
// # Error Handling
//
// Jobs log failures and keep their schedule. A failed job start stops any
// already running jobs.
package jobs
