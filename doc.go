/*
Package taskpool provides a Go library for running the asynchronous units of
work of a streaming pipeline: pluggable worker pools, a shared process-wide
default pool, and on-demand single-threaded schedule contexts for callers
that need strictly ordered execution.

Worker Pools (pkg/taskpool):
  - Pool: the prepare/push/join/cleanup execution façade
  - default backend: bounded or unbounded workers, exclusive or lazy
  - Default(): shared, pre-prepared process-wide pool
  - schedule thread: reference-counted ordered execution context per pool

Ordered Execution (pkg/runloop):
  - Loop: a cooperative run loop executing posted work strictly in order

Timed Work (pkg/scheduler):
  - cron and interval-based scheduling of jobs into a pool

Example usage:

	import "github.com/vnykmshr/taskpool/pkg/taskpool"

	pool := taskpool.NewWithConfig(taskpool.Config{MaxWorkers: 4})
	if err := pool.Prepare(); err != nil {
		log.Fatal(err)
	}
	defer pool.Cleanup()

	pool.Push(taskpool.JobFunc(func() {
		// do work on some pool worker
	}))
*/
package taskpool
