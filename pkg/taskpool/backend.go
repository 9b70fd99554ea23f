package taskpool

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
)

// threadPool is the default backend: a generic worker pool with an unbounded
// FIFO queue. In exclusive mode the full complement of workers is created in
// Prepare and retained until Cleanup; otherwise workers are spawned on
// demand up to the bound and may exit after IdleTimeout without work.
type threadPool struct {
	maxWorkers  int
	exclusive   bool
	idleTimeout time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Job
	workers  int // live worker goroutines
	idle     int // workers blocked waiting for work
	stopping bool
	wg       sync.WaitGroup
}

// defaultIdleTimeout is how long a lazy worker lingers without work before
// it is reclaimed, unless Config.IdleTimeout overrides it.
const defaultIdleTimeout = 15 * time.Second

func newThreadPool(cfg Config, logger *zap.Logger) *threadPool {
	idleTimeout := cfg.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = defaultIdleTimeout
	}

	t := &threadPool{
		maxWorkers:  cfg.MaxWorkers,
		exclusive:   cfg.Exclusive,
		idleTimeout: idleTimeout,
		logger:      logger,
	}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// Prepare validates the configuration and, in exclusive mode, spawns the
// full worker complement up front.
func (t *threadPool) Prepare() error {
	if t.exclusive && t.maxWorkers <= 0 {
		return fmt.Errorf("exclusive pool needs a positive worker bound: %w",
			tperrors.ErrInvalidConfiguration)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.exclusive {
		for i := 0; i < t.maxWorkers; i++ {
			t.startWorker()
		}
	}
	return nil
}

// Push appends the job to the FIFO queue and wakes or spawns a worker. The
// queue is unbounded, so a live backend only refuses work while Cleanup is
// draining it.
func (t *threadPool) Push(job Job) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopping {
		return Handle{}, fmt.Errorf("backend is draining: %w", tperrors.ErrClosed)
	}

	t.queue = append(t.queue, job)

	// Lazy mode: spawn a worker when the backlog exceeds the idle waiters
	// and the bound allows it.
	if !t.exclusive && t.idle < len(t.queue) &&
		(t.maxWorkers <= 0 || t.workers < t.maxWorkers) {
		t.startWorker()
	}

	t.cond.Signal()
	return Handle{}, nil
}

// Join is unsupported: workers take jobs from a shared queue and there is no
// per-job completion signal to wait on.
func (t *threadPool) Join(h Handle) {
	t.logger.Debug("join not supported by the default backend",
		zap.Uint64("handle", h.ID()))
}

// Cleanup stops accepting work and blocks until the queue is drained and
// every worker has exited. Queued jobs are executed, not discarded.
func (t *threadPool) Cleanup() {
	t.mu.Lock()
	if t.stopping {
		t.mu.Unlock()
		return
	}
	t.stopping = true

	// A lazy pool may hold queued jobs after all its workers were
	// reclaimed; spawn enough workers to run them.
	if !t.exclusive {
		needed := len(t.queue)
		if t.maxWorkers > 0 && needed > t.maxWorkers {
			needed = t.maxWorkers
		}
		for t.workers < needed {
			t.startWorker()
		}
	}

	t.cond.Broadcast()
	t.mu.Unlock()

	t.wg.Wait()
}

// Stats implements StatsReporter.
func (t *threadPool) Stats() BackendStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return BackendStats{
		Workers: t.workers,
		Idle:    t.idle,
		Queued:  len(t.queue),
	}
}

// startWorker spawns one worker goroutine. Callers must hold t.mu.
func (t *threadPool) startWorker() {
	t.workers++
	t.wg.Add(1)
	go t.work()
}

// work is the main loop for a worker. It dequeues jobs FIFO until the
// backend drains on Cleanup or, in lazy mode, the worker idles out.
func (t *threadPool) work() {
	defer t.wg.Done()

	t.mu.Lock()
	for {
		if len(t.queue) > 0 {
			job := t.queue[0]
			t.queue = t.queue[1:]
			t.mu.Unlock()

			t.invoke(job)

			t.mu.Lock()
			continue
		}

		if t.stopping {
			break
		}

		if !t.exclusive && t.idleTimeout > 0 {
			t.idle++
			timedOut := t.waitWithTimeout(t.idleTimeout)
			t.idle--
			if timedOut && len(t.queue) == 0 && !t.stopping {
				break // reclaim the idle worker
			}
		} else {
			t.idle++
			t.cond.Wait()
			t.idle--
		}
	}
	t.workers--
	t.mu.Unlock()
}

// waitWithTimeout waits on the pool condition for at most d. Like cond.Wait
// it releases t.mu while blocked and reacquires it before returning. The
// return value reports whether the timeout elapsed; the caller still has to
// re-check the queue, since the wakeup may race with a push.
func (t *threadPool) waitWithTimeout(d time.Duration) bool {
	timer := time.AfterFunc(d, func() {
		t.mu.Lock()
		t.cond.Broadcast()
		t.mu.Unlock()
	})
	t.cond.Wait()
	return !timer.Stop()
}

// invoke runs one job, recovering panics so a misbehaving job cannot take
// down its worker or the process.
func (t *threadPool) invoke(job Job) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("job panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()

	job.Run()
}
