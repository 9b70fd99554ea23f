package taskpool

import (
	"sync"

	"github.com/vnykmshr/taskpool/pkg/runloop"
)

// scheduleState tracks the pool's optional schedule thread: one dedicated
// goroutine running a runloop.Loop, shared by reference count across the
// consumers that asked for it. It has its own mutex, which is never held
// together with the pool mutex.
type scheduleState struct {
	mu       sync.Mutex
	refcount int
	loop     *runloop.Loop
	stopped  chan struct{} // closed when the loop goroutine exits
}

// EnableScheduleThread attaches the caller to the pool's schedule thread,
// creating it on the first call. The thread hosts a runloop.Loop on which
// work posted via ScheduleContext executes strictly in posting order and
// never overlaps, in contrast to the pool's parallel, unordered workers.
//
// On the first enable the call blocks until the new goroutine is actually
// executing its loop, so no caller ever observes a context that is not yet
// live. Further calls only increment the reference count.
//
// The shared default pool never hosts a schedule thread; enabling one on it
// returns false. Every successful call returns true and must be balanced by
// one DisableScheduleThread.
func (p *TaskPool) EnableScheduleThread() bool {
	if p.shared {
		p.logger.Warn("schedule thread not available on the shared default pool")
		return false
	}

	p.sched.mu.Lock()
	defer p.sched.mu.Unlock()

	if p.sched.refcount == 0 {
		loop := runloop.NewWithConfig(runloop.Config{Logger: p.logger})
		stopped := make(chan struct{})

		go func() {
			defer close(stopped)
			loop.Run()
		}()

		// Readiness handshake: the loop executes posted work only once
		// Run is live, so waiting for this callback guarantees the
		// context is running before anyone can see it.
		ready := make(chan struct{})
		if err := loop.Post(func() { close(ready) }); err != nil {
			// A freshly created loop cannot refuse a post.
			panic("taskpool: readiness post on fresh run loop failed: " + err.Error())
		}
		<-ready

		p.sched.loop = loop
		p.sched.stopped = stopped
	}

	p.sched.refcount++
	return true
}

// DisableScheduleThread releases one reference to the schedule thread. When
// the last reference is released the loop is told to quit, the call blocks
// until the thread's goroutine has fully exited, and the context is freed.
//
// Calling it on the shared default pool is rejected and logged. Calling it
// without a matching enable is a caller bug and panics.
func (p *TaskPool) DisableScheduleThread() {
	if p.shared {
		p.logger.Warn("schedule thread not available on the shared default pool")
		return
	}

	p.sched.mu.Lock()
	defer p.sched.mu.Unlock()

	if p.sched.refcount == 0 {
		panic("taskpool: DisableScheduleThread without matching enable")
	}

	p.sched.refcount--
	if p.sched.refcount == 0 {
		p.sched.loop.Quit()
		<-p.sched.stopped
		p.sched.loop = nil
		p.sched.stopped = nil
	}
}

// ScheduleContext returns the pool's live schedule context. It returns nil
// unless the caller (or another consumer) currently holds the schedule
// thread via EnableScheduleThread; querying it without holding a reference
// is a precondition violation, not a recoverable condition.
func (p *TaskPool) ScheduleContext() *runloop.Loop {
	p.sched.mu.Lock()
	defer p.sched.mu.Unlock()
	return p.sched.loop
}
