/*
Package scheduler submits jobs to a task pool when their time arrives.

The scheduler owns the when (one-shot times, fixed intervals, or cron
expressions) and delegates the where to a taskpool.Pool, so due jobs run on
pool workers with whatever concurrency the pool allows.

Basic usage:

	s := scheduler.New()
	if err := s.Start(); err != nil {
		log.Fatal(err)
	}

	s.ScheduleAfter("warmup", taskpool.JobFunc(func() {
		// runs roughly one second from now, on a pool worker
	}), time.Second)

	s.ScheduleCron("nightly", "0 0 3 * * *", taskpool.JobFunc(func() {
		// runs at 03:00 every night
	}))

	<-s.Stop() // stops ticking and drains the owned pool

When no pool is injected through Config.Pool, the scheduler creates and
owns one: Start prepares it and Stop cleans it up, so jobs already handed
to the pool finish before the Stop channel closes. An injected pool is the
caller's to prepare and clean up.

Timing resolution is Config.TickInterval (default 50ms); a job never runs
before its due time, but may run up to one tick late.
*/
package scheduler
