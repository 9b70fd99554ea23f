package taskpool

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/taskpool/pkg/metrics"
	"github.com/vnykmshr/taskpool/pkg/runloop"
)

// MetricsPool wraps a TaskPool with Prometheus metrics collection.
type MetricsPool struct {
	pool     *TaskPool
	name     string
	registry *metrics.Registry
	enabled  bool

	scheduleRefs int64 // local mirror of the schedule refcount, for gauges
}

// NewWithMetrics creates a task pool with metrics enabled.
func NewWithMetrics(maxWorkers int, name string) *MetricsPool {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{
		MaxWorkers: maxWorkers,
	}, name, config)
}

// NewWithConfigAndMetrics creates a task pool with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) *MetricsPool {
	basePool := NewWithConfig(config)

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mp := &MetricsPool{
		pool:     basePool,
		name:     name,
		registry: registry,
		enabled:  metricsConfig.Enabled,
	}

	mp.updateGauges()
	return mp
}

// updateGauges refreshes the current state gauges.
func (mp *MetricsPool) updateGauges() {
	if !mp.enabled {
		return
	}

	stats := mp.pool.Stats()
	mp.registry.PoolWorkers.WithLabelValues(mp.name).Set(float64(stats.Workers))
	mp.registry.PoolIdleWorkers.WithLabelValues(mp.name).Set(float64(stats.Idle))
	mp.registry.PoolQueueDepth.WithLabelValues(mp.name).Set(float64(stats.Queued))
}

// Prepare allocates the underlying pool's backend.
func (mp *MetricsPool) Prepare() error {
	err := mp.pool.Prepare()
	mp.updateGauges()
	return err
}

// Push submits a job, recording push/drop counters and wrapping the job to
// observe its execution.
func (mp *MetricsPool) Push(job Job) (Handle, error) {
	if job == nil {
		return mp.pool.Push(job)
	}

	wrapped := &metricsJob{
		original: job,
		pool:     mp,
	}

	h, err := mp.pool.Push(wrapped)

	if mp.enabled {
		switch {
		case err != nil:
			// backend refusal is reported to the caller, not counted
		case mp.pool.Prepared():
			mp.registry.JobsPushed.WithLabelValues(mp.name).Inc()
		default:
			mp.registry.JobsDropped.WithLabelValues(mp.name).Inc()
		}
		mp.updateGauges()
	}

	return h, err
}

// metricsJob wraps a Job to collect execution metrics.
type metricsJob struct {
	original Job
	pool     *MetricsPool
}

// Run executes the original job and records duration and outcome. A panic
// is counted as a failure and re-raised for the backend's recovery handler.
func (mj *metricsJob) Run() {
	if !mj.pool.enabled {
		mj.original.Run()
		return
	}

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		mj.pool.registry.JobDuration.WithLabelValues(mj.pool.name).Observe(duration.Seconds())

		if r := recover(); r != nil {
			mj.pool.registry.JobsFailed.WithLabelValues(mj.pool.name).Inc()
			mj.pool.updateGauges()
			panic(r)
		}

		mj.pool.registry.JobsCompleted.WithLabelValues(mj.pool.name).Inc()
		mj.pool.updateGauges()
	}()

	mj.original.Run()
}

// Join forwards to the underlying pool.
func (mp *MetricsPool) Join(h Handle) {
	mp.pool.Join(h)
}

// Cleanup drains the underlying pool.
func (mp *MetricsPool) Cleanup() {
	mp.pool.Cleanup()
	mp.updateGauges()
}

// Stats returns the underlying backend snapshot.
func (mp *MetricsPool) Stats() BackendStats {
	stats := mp.pool.Stats()
	mp.updateGauges()
	return stats
}

// Prepared reports whether the underlying pool holds a live backend.
func (mp *MetricsPool) Prepared() bool {
	return mp.pool.Prepared()
}

// EnableScheduleThread forwards to the underlying pool and tracks the
// schedule gauges.
func (mp *MetricsPool) EnableScheduleThread() bool {
	ok := mp.pool.EnableScheduleThread()
	if ok && mp.enabled {
		refs := atomic.AddInt64(&mp.scheduleRefs, 1)
		mp.registry.ScheduleRefcount.WithLabelValues(mp.name).Set(float64(refs))
		mp.registry.ScheduleThreadActive.WithLabelValues(mp.name).Set(1)
	}
	return ok
}

// DisableScheduleThread forwards to the underlying pool and tracks the
// schedule gauges.
func (mp *MetricsPool) DisableScheduleThread() {
	mp.pool.DisableScheduleThread()
	if mp.enabled {
		refs := atomic.AddInt64(&mp.scheduleRefs, -1)
		mp.registry.ScheduleRefcount.WithLabelValues(mp.name).Set(float64(refs))
		if refs == 0 {
			mp.registry.ScheduleThreadActive.WithLabelValues(mp.name).Set(0)
		}
	}
}

// ScheduleContext forwards to the underlying pool.
func (mp *MetricsPool) ScheduleContext() *runloop.Loop {
	return mp.pool.ScheduleContext()
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPool) EnableMetrics(config metrics.Config) error {
	mp.enabled = config.Enabled

	if config.Registry != nil {
		mp.registry = metrics.NewRegistry(config.Registry)
	}

	if mp.enabled {
		mp.updateGauges()
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.enabled
}
