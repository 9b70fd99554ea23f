/*
Package runloop provides a single-threaded cooperative execution context.

A Loop executes posted callbacks strictly in posting order, one at a time, on
the goroutine that calls Run. This gives callers an ordering guarantee that a
worker pool cannot: two callbacks posted to the same loop never overlap in
time, and the first one posted always finishes before the second one starts.

Basic usage:

	loop := runloop.New()

	go loop.Run()
	defer loop.Quit()

	loop.Post(func() {
		// runs on the loop goroutine, after everything posted before it
	})

The typical consumer does not construct a Loop directly but obtains one from
a task pool's schedule thread via taskpool.ScheduleContext, which ties the
loop's lifetime to a reference count shared across consumers.

Quit stops the loop after the callback currently executing (if any) returns.
Callbacks still queued when Quit is called are discarded, and further posts
fail with an error wrapping errors.ErrClosed.
*/
package runloop
