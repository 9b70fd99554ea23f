// Package metrics provides Prometheus instrumentation for taskpool components.
//
// This package enables monitoring and observability for the worker pools,
// schedule contexts, and timed schedulers in this library through Prometheus
// metrics.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Worker pool with metrics
//	pool := taskpool.NewWithMetrics(4, "media_pool")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	pool := taskpool.NewWithConfigAndMetrics(
//		taskpool.Config{MaxWorkers: 4},
//		"media_pool",
//		config,
//	)
//
// # Available Metrics
//
// ## Pool Metrics
//
//   - taskpool_pool_jobs_pushed_total: Jobs accepted by a pool backend
//   - taskpool_pool_jobs_dropped_total: Jobs dropped because no backend was live
//   - taskpool_pool_jobs_completed_total: Jobs that ran to completion
//   - taskpool_pool_jobs_failed_total: Jobs that panicked during execution
//   - taskpool_pool_job_duration_seconds: Time spent executing jobs
//   - taskpool_pool_workers: Live worker goroutines
//   - taskpool_pool_workers_idle: Workers waiting for work
//   - taskpool_pool_queue_depth: Jobs queued and not yet started
//
// ## Schedule Context Metrics
//
//   - taskpool_schedule_thread_active: Whether a schedule thread is hosted
//   - taskpool_schedule_refcount: Consumers holding the schedule thread
//
// ## Scheduler Metrics
//
//   - taskpool_scheduler_tasks_scheduled_total: Timed tasks registered
//   - taskpool_scheduler_tasks_submitted_total: Due tasks handed to the pool
//   - taskpool_scheduler_tasks_overdue_total: Tasks that fired late
package metrics
