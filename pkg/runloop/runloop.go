package runloop

import (
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
)

// Loop is a cooperative run loop. Work posted to a Loop executes strictly in
// posting order, one callback at a time, on whichever goroutine is running
// the loop. It is the ordered counterpart to a worker pool: nothing posted to
// the same Loop ever overlaps in time.
type Loop struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue    []func()
	running  bool
	quitting bool

	logger *zap.Logger
}

// Config holds configuration options for creating a run loop.
type Config struct {
	// Logger receives diagnostics such as recovered callback panics.
	// If nil, logging is disabled.
	Logger *zap.Logger
}

// New creates a run loop with default configuration.
func New() *Loop {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a run loop with custom configuration.
func NewWithConfig(cfg Config) *Loop {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Loop{logger: logger}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Post queues fn for execution on the loop. Callbacks run in posting order
// and never concurrently with each other. Post never blocks waiting for the
// callback to run.
//
// Posting to a loop that has quit returns an error wrapping errors.ErrClosed;
// the callback is dropped.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return tperrors.ErrNilJob
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.quitting {
		return fmt.Errorf("cannot post to run loop: %w", tperrors.ErrClosed)
	}

	l.queue = append(l.queue, fn)
	l.cond.Signal()
	return nil
}

// Run executes posted callbacks until Quit is called. It blocks the calling
// goroutine for the lifetime of the loop. Quit takes effect after the
// currently executing callback returns; callbacks still queued at that point
// are not run.
//
// Run may be called at most once per loop; a second call panics.
func (l *Loop) Run() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		panic("runloop: Run called on a running loop")
	}
	l.running = true

	for {
		for len(l.queue) == 0 && !l.quitting {
			l.cond.Wait()
		}
		if l.quitting {
			break
		}

		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.invoke(fn)

		l.mu.Lock()
	}

	l.running = false
	l.mu.Unlock()
}

// Quit stops the loop. The currently executing callback finishes; queued
// callbacks are discarded and subsequent posts fail. Quit is idempotent and
// returns without waiting for Run to unwind.
func (l *Loop) Quit() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.quitting = true
	l.cond.Broadcast()
}

// Running reports whether a goroutine is currently inside Run. Note that a
// true result may be stale by the time the caller acts on it.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Len returns the number of callbacks queued and not yet started.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// invoke runs one callback, recovering panics so the loop survives.
func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("run loop callback panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()

	fn()
}
