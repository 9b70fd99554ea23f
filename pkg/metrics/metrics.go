// Package metrics provides Prometheus instrumentation for taskpool components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for taskpool components.
type Registry struct {
	// Pool Metrics
	JobsPushed      *prometheus.CounterVec
	JobsDropped     *prometheus.CounterVec
	JobsCompleted   *prometheus.CounterVec
	JobsFailed      *prometheus.CounterVec
	JobDuration     *prometheus.HistogramVec
	PoolWorkers     *prometheus.GaugeVec
	PoolIdleWorkers *prometheus.GaugeVec
	PoolQueueDepth  *prometheus.GaugeVec

	// Schedule Context Metrics
	ScheduleThreadActive *prometheus.GaugeVec
	ScheduleRefcount     *prometheus.GaugeVec

	// Scheduler Metrics
	TasksScheduled *prometheus.CounterVec
	TasksSubmitted *prometheus.CounterVec
	TasksOverdue   *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by taskpool components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		JobsPushed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "jobs_pushed_total",
				Help:      "Total number of jobs accepted by a pool backend",
			},
			[]string{"pool_name"},
		),

		JobsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "jobs_dropped_total",
				Help:      "Total number of jobs dropped because no backend was live",
			},
			[]string{"pool_name"},
		),

		JobsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "jobs_completed_total",
				Help:      "Total number of jobs that ran to completion",
			},
			[]string{"pool_name"},
		),

		JobsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "jobs_failed_total",
				Help:      "Total number of jobs that panicked during execution",
			},
			[]string{"pool_name"},
		),

		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "job_duration_seconds",
				Help:      "Time spent executing jobs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		PoolWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "workers",
				Help:      "Number of live worker goroutines",
			},
			[]string{"pool_name"},
		),

		PoolIdleWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "workers_idle",
				Help:      "Number of workers waiting for work",
			},
			[]string{"pool_name"},
		),

		PoolQueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "queue_depth",
				Help:      "Number of jobs queued and not yet started",
			},
			[]string{"pool_name"},
		),

		ScheduleThreadActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "schedule",
				Name:      "thread_active",
				Help:      "Whether the pool currently hosts a schedule thread (0 or 1)",
			},
			[]string{"pool_name"},
		),

		ScheduleRefcount: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "schedule",
				Name:      "refcount",
				Help:      "Number of consumers holding the schedule thread",
			},
			[]string{"pool_name"},
		),

		TasksScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "scheduler",
				Name:      "tasks_scheduled_total",
				Help:      "Total number of timed tasks registered",
			},
			[]string{"scheduler_name"},
		),

		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "scheduler",
				Name:      "tasks_submitted_total",
				Help:      "Total number of due tasks handed to the pool",
			},
			[]string{"scheduler_name"},
		),

		TasksOverdue: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "scheduler",
				Name:      "tasks_overdue_total",
				Help:      "Total number of tasks that fired later than one tick past their due time",
			},
			[]string{"scheduler_name"},
		),
	}
}
