/*
Package taskpool provides a pluggable abstraction for running asynchronous
units of work, so streaming elements do not have to manage goroutines
themselves.

A TaskPool decouples "what needs to run concurrently" from "how workers are
created and reused". The lifecycle is prepare, push, cleanup:

	pool := taskpool.NewWithConfig(taskpool.Config{MaxWorkers: 2})
	if err := pool.Prepare(); err != nil {
		log.Fatal(err)
	}

	pool.Push(taskpool.JobFunc(func() {
		// runs on some pool worker
	}))

	pool.Cleanup() // blocks until every accepted job has finished

Jobs are fire-and-forget: no results, no futures, no per-job cancellation.
The one teardown guarantee is drain-on-cleanup: Cleanup never discards a
job the backend has accepted, queued or running.

Lifecycle rules:

  - Prepare must complete before any Push; pushing earlier, or after
    Cleanup, silently drops the job and returns the zero Handle.
  - Preparing twice without an intervening Cleanup returns
    ErrAlreadyPrepared.
  - Cleanup returns the pool to the unprepared state; Prepare may then be
    called again.

Default Backend:

The default backend is a worker pool with an unbounded FIFO queue. With
MaxWorkers > 0 at most that many jobs run concurrently. Exclusive mode
creates every worker during Prepare and keeps them for the backend's
lifetime; otherwise workers are created on demand and may be reclaimed
after IdleTimeout. Custom execution strategies implement Backend and are
injected through Config.Backend.

Note that the default backend cannot wait on individual jobs: Push always
returns the zero Handle and Join is a logged no-op.

Schedule Thread:

Callers that need strictly ordered execution next to the unordered workers
attach to the pool's schedule thread, a reference-counted dedicated
goroutine hosting a runloop.Loop:

	if pool.EnableScheduleThread() {
		defer pool.DisableScheduleThread()

		loop := pool.ScheduleContext()
		loop.Post(func() { ... }) // strictly ordered, never overlapping
	}

Default Pool:

Default() returns a lazily initialized, pre-prepared pool shared by the
whole process. It is never cleaned up and never hosts a schedule thread.

Metrics:

NewWithMetrics and NewWithConfigAndMetrics wrap a pool with Prometheus
instrumentation; see pkg/metrics for the exported series.
*/
package taskpool
