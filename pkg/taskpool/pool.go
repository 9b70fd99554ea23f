package taskpool

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
)

// Job represents one unit of work submitted to a pool. Jobs are
// fire-and-forget: they carry no result and cannot be canceled once a
// backend has accepted them.
type Job interface {
	// Run executes the job on some pool worker.
	Run()
}

// JobFunc is a function type that implements the Job interface.
type JobFunc func()

// Run implements the Job interface for JobFunc.
func (f JobFunc) Run() { f() }

// Handle is an opaque token referencing a job accepted by a backend. The
// zero Handle is not joinable; the default backend always returns the zero
// Handle because it cannot wait on individual jobs.
type Handle struct {
	id uint64
}

// NewHandle creates a joinable handle with the given backend-assigned id.
// Custom backends that support joining individual jobs use this to tag
// accepted work; id must be non-zero.
func NewHandle(id uint64) Handle {
	return Handle{id: id}
}

// Joinable reports whether the handle references a job that the backend can
// wait on.
func (h Handle) Joinable() bool { return h.id != 0 }

// ID returns the backend-assigned id, or 0 for the zero Handle.
func (h Handle) ID() uint64 { return h.id }

// Backend is a concrete execution strategy behind a TaskPool. The pool
// façade forwards its four lifecycle operations to whichever backend it
// holds; callers never talk to a backend directly.
type Backend interface {
	// Prepare allocates the backend's execution resources. After a failed
	// Prepare the backend must be safe to discard without Cleanup.
	Prepare() error

	// Push hands one job to the backend for eventual execution. Ownership
	// of the job transfers to the backend until the job returns.
	Push(job Job) (Handle, error)

	// Join waits for the job referenced by h to finish, if the backend
	// supports that. Backends without join support treat this as a no-op.
	Join(h Handle)

	// Cleanup stops the backend. Every job already accepted, queued or
	// running, finishes before Cleanup returns.
	Cleanup()
}

// BackendStats is a point-in-time snapshot of a backend's execution state.
type BackendStats struct {
	// Workers is the number of live worker goroutines.
	Workers int

	// Idle is the number of workers waiting for work.
	Idle int

	// Queued is the number of jobs accepted but not yet started.
	Queued int
}

// StatsReporter is optionally implemented by backends that expose their
// execution state. The default backend implements it.
type StatsReporter interface {
	Stats() BackendStats
}

// Pool is the task-execution façade. TaskPool and its decorators implement
// it; collaborators that only submit work should depend on this interface
// rather than on a concrete pool.
type Pool interface {
	Prepare() error
	Push(job Job) (Handle, error)
	Join(h Handle)
	Cleanup()
	Stats() BackendStats
}

// Config holds configuration options for creating a task pool.
type Config struct {
	// MaxWorkers bounds the number of jobs executing concurrently.
	// Zero or negative means unbounded.
	MaxWorkers int

	// Exclusive creates the full complement of MaxWorkers workers during
	// Prepare and retains them for the backend's lifetime. Requires a
	// positive MaxWorkers; Prepare fails otherwise. When false, workers
	// are created lazily on demand up to the bound.
	Exclusive bool

	// IdleTimeout is how long a lazily created worker waits for new work
	// before exiting. Zero means the default of 15 seconds; a negative
	// value retains idle workers for the backend's lifetime. Ignored in
	// exclusive mode.
	IdleTimeout time.Duration

	// Backend overrides the default worker-pool backend. When set,
	// MaxWorkers, Exclusive and IdleTimeout are ignored; the backend is
	// expected to have been configured by its own constructor.
	Backend Backend

	// Logger receives diagnostics such as dropped jobs and recovered
	// panics. If nil, logging is disabled.
	Logger *zap.Logger
}

// TaskPool runs jobs asynchronously on behalf of streaming elements so they
// do not manage goroutines themselves. The zero value is not usable; create
// pools with New or NewWithConfig, then Prepare before pushing work.
//
// A TaskPool additionally hosts an optional schedule thread: a dedicated
// goroutine running a runloop.Loop for callers that need strictly ordered
// execution next to the unordered worker pool. See EnableScheduleThread.
type TaskPool struct {
	mu     sync.Mutex
	cfg    Config
	active Backend // nil until Prepare succeeds, nil again after Cleanup
	logger *zap.Logger

	// shared marks the process-wide default pool, which never hosts a
	// schedule thread.
	shared bool

	sched scheduleState
}

// New creates a task pool with the default backend, unbounded concurrency
// and lazy worker creation.
func New() *TaskPool {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a task pool with custom configuration. Invalid
// combinations surface from Prepare, not from the constructor.
func NewWithConfig(cfg Config) *TaskPool {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TaskPool{
		cfg:    cfg,
		logger: logger,
	}
}

// Prepare allocates the pool's backend so Push can hand it work. It must
// complete before any Push; until then (and after Cleanup) pushed jobs are
// silently dropped.
//
// Preparing an already prepared pool returns ErrAlreadyPrepared without
// touching the live backend. If backend allocation fails, the pool stays
// unprepared and the error is returned.
func (p *TaskPool) Prepare() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil {
		return tperrors.ErrAlreadyPrepared
	}

	backend := p.cfg.Backend
	if backend == nil {
		backend = newThreadPool(p.cfg, p.logger)
	}

	if err := backend.Prepare(); err != nil {
		return fmt.Errorf("preparing backend: %w", err)
	}

	p.active = backend
	return nil
}

// Push submits one job for execution on some pool worker. Order relative to
// other pending jobs is backend-defined; the default backend dequeues FIFO
// but runs jobs on parallel workers, so completion order is not guaranteed.
//
// Pushing to an unprepared or cleaned-up pool drops the job and returns the
// zero Handle with a nil error; callers must not rely on execution in that
// state. A non-nil error means the live backend refused the job.
func (p *TaskPool) Push(job Job) (Handle, error) {
	if job == nil {
		return Handle{}, tperrors.ErrNilJob
	}

	p.mu.Lock()
	backend := p.active
	p.mu.Unlock()

	if backend == nil {
		p.logger.Debug("dropping job pushed to pool without a backend")
		return Handle{}, nil
	}

	h, err := backend.Push(job)
	if err != nil {
		return Handle{}, fmt.Errorf("pushing job: %w", err)
	}
	return h, nil
}

// Join waits for the job referenced by h if the backend supports it. The
// default backend does not and treats Join as a no-op; this is a documented
// limitation, not an error.
func (p *TaskPool) Join(h Handle) {
	p.mu.Lock()
	backend := p.active
	p.mu.Unlock()

	if backend == nil {
		return
	}
	backend.Join(h)
}

// Cleanup stops the backend and blocks until every job it accepted, queued
// or already running, has finished. No accepted job is discarded. Afterwards
// the pool drops pushed jobs until Prepare is called again.
func (p *TaskPool) Cleanup() {
	p.mu.Lock()
	backend := p.active
	p.active = nil
	p.mu.Unlock()

	if backend != nil {
		backend.Cleanup()
	}
}

// Prepared reports whether the pool currently holds a live backend.
func (p *TaskPool) Prepared() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil
}

// Stats returns a snapshot of the live backend's execution state, or the
// zero BackendStats when the pool is unprepared or the backend does not
// report state.
func (p *TaskPool) Stats() BackendStats {
	p.mu.Lock()
	backend := p.active
	p.mu.Unlock()

	if reporter, ok := backend.(StatsReporter); ok {
		return reporter.Stats()
	}
	return BackendStats{}
}
