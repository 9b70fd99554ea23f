package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vnykmshr/taskpool/pkg/metrics"
	"github.com/vnykmshr/taskpool/pkg/taskpool"
)

// Entry describes a scheduled job.
type Entry struct {
	ID       string
	RunAt    time.Time
	Interval time.Duration // Zero for one-time jobs
	Created  time.Time
}

// Scheduler submits jobs to a task pool when their time arrives, with cron
// support. It decides when; the pool decides where and how concurrently.
type Scheduler interface {
	// Basic scheduling
	Schedule(id string, job taskpool.Job, runAt time.Time) error
	ScheduleAfter(id string, job taskpool.Job, delay time.Duration) error
	ScheduleRepeating(id string, job taskpool.Job, interval time.Duration) error

	// Cron scheduling
	ScheduleCron(id string, cronExpr string, job taskpool.Job) error

	// Entry management
	Cancel(id string) bool
	CancelAll()
	List() []Entry

	// Lifecycle
	Start() error
	Stop() <-chan struct{}
}

// Config holds scheduler configuration.
type Config struct {
	Pool         taskpool.Pool  // Target pool; one is created and owned if nil
	Location     *time.Location // For cron scheduling
	TickInterval time.Duration  // How often to check for due jobs (default: 50ms)
	MaxEntries   int            // Maximum number of scheduled jobs (default: 10000)
	Logger       *zap.Logger    // Diagnostics; disabled if nil

	// MetricsName enables Prometheus metrics for this scheduler under the
	// given name, recorded on metrics.DefaultRegistry. Empty disables them.
	MetricsName string
}

type scheduledJob struct {
	id           string
	job          taskpool.Job
	runAt        time.Time
	interval     time.Duration
	cronSchedule cron.Schedule
	created      time.Time
}

type scheduler struct {
	pool         taskpool.Pool
	ownPool      bool
	location     *time.Location
	tickInterval time.Duration
	maxEntries   int
	cronParser   cron.Parser
	logger       *zap.Logger
	metricsName  string
	registry     *metrics.Registry // nil when metrics are disabled

	mu      sync.RWMutex
	entries map[string]*scheduledJob
	ticker  *time.Ticker
	done    chan struct{}
	stopped chan struct{}
	running bool
}

// New creates a scheduler with default configuration.
func New() Scheduler {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) Scheduler {
	pool := cfg.Pool
	ownPool := false
	if pool == nil {
		pool = taskpool.NewWithConfig(taskpool.Config{
			MaxWorkers: 4,
			Logger:     cfg.Logger,
		})
		ownPool = true
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var registry *metrics.Registry
	if cfg.MetricsName != "" {
		registry = metrics.DefaultRegistry
	}

	return &scheduler{
		pool:         pool,
		ownPool:      ownPool,
		location:     location,
		tickInterval: tickInterval,
		maxEntries:   maxEntries,
		cronParser:   cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		logger:       logger,
		metricsName:  cfg.MetricsName,
		registry:     registry,
		entries:      make(map[string]*scheduledJob),
	}
}

func (s *scheduler) validate(id string, job taskpool.Job) error {
	if id == "" {
		return fmt.Errorf("entry ID cannot be empty")
	}
	if len(id) > 255 {
		return fmt.Errorf("entry ID too long (max 255 characters)")
	}
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}
	return nil
}

// add registers an entry under s.mu, enforcing uniqueness and capacity.
func (s *scheduler) add(entry *scheduledJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.id]; exists {
		return fmt.Errorf("entry with ID %q already exists, cancel it first", entry.id)
	}
	if len(s.entries) >= s.maxEntries {
		return fmt.Errorf("cannot schedule entry: maximum number of entries (%d) reached", s.maxEntries)
	}

	s.entries[entry.id] = entry
	if s.registry != nil {
		s.registry.TasksScheduled.WithLabelValues(s.metricsName).Inc()
	}
	return nil
}

func (s *scheduler) Schedule(id string, job taskpool.Job, runAt time.Time) error {
	if err := s.validate(id, job); err != nil {
		return err
	}
	if runAt.IsZero() {
		return fmt.Errorf("entry run time cannot be zero")
	}

	return s.add(&scheduledJob{
		id:      id,
		job:     job,
		runAt:   runAt,
		created: time.Now(),
	})
}

func (s *scheduler) ScheduleAfter(id string, job taskpool.Job, delay time.Duration) error {
	return s.Schedule(id, job, time.Now().Add(delay))
}

func (s *scheduler) ScheduleRepeating(id string, job taskpool.Job, interval time.Duration) error {
	if err := s.validate(id, job); err != nil {
		return err
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}

	return s.add(&scheduledJob{
		id:       id,
		job:      job,
		runAt:    time.Now(),
		interval: interval,
		created:  time.Now(),
	})
}

func (s *scheduler) ScheduleCron(id string, cronExpr string, job taskpool.Job) error {
	if err := s.validate(id, job); err != nil {
		return err
	}
	if cronExpr == "" {
		return fmt.Errorf("cron expression cannot be empty")
	}

	schedule, err := s.cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	now := time.Now().In(s.location)
	return s.add(&scheduledJob{
		id:           id,
		job:          job,
		runAt:        schedule.Next(now),
		cronSchedule: schedule,
		created:      time.Now(),
	})
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		delete(s.entries, id)
		return true
	}
	return false
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*scheduledJob)
}

func (s *scheduler) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, Entry{
			ID:       e.id,
			RunAt:    e.runAt,
			Interval: e.interval,
			Created:  e.created,
		})
	}

	// Sort by run time
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RunAt.Before(entries[j].RunAt)
	})

	return entries
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running, call Stop() first")
	}

	if s.ownPool {
		if err := s.pool.Prepare(); err != nil {
			return fmt.Errorf("preparing owned pool: %w", err)
		}
	}

	s.running = true
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	s.ticker = time.NewTicker(s.tickInterval)

	go s.run()
	return nil
}

func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	s.running = false
	close(s.done)
	s.ticker.Stop()
	stopped := s.stopped
	s.mu.Unlock()

	return stopped
}

func (s *scheduler) run() {
	defer close(s.stopped)
	defer func() {
		// The owned pool drains before Stop's channel closes, so every
		// job already handed over finishes.
		if s.ownPool {
			s.pool.Cleanup()
		}
	}()

	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.submitDue()
		}
	}
}

// submitDue pushes every due entry to the pool and reschedules repeating
// and cron entries.
func (s *scheduler) submitDue() {
	now := time.Now()

	s.mu.Lock()
	if len(s.entries) == 0 {
		s.mu.Unlock()
		return
	}

	due := make([]*scheduledJob, 0, len(s.entries))
	for id, entry := range s.entries {
		if now.Before(entry.runAt) {
			continue
		}
		due = append(due, entry)

		if s.registry != nil && now.Sub(entry.runAt) > s.tickInterval {
			s.registry.TasksOverdue.WithLabelValues(s.metricsName).Inc()
		}

		switch {
		case entry.interval > 0:
			entry.runAt = now.Add(entry.interval)
		case entry.cronSchedule != nil:
			entry.runAt = entry.cronSchedule.Next(now.In(s.location))
		default:
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, entry := range due {
		if _, err := s.pool.Push(entry.job); err != nil {
			s.logger.Warn("failed to push due job",
				zap.String("entry_id", entry.id),
				zap.Error(err))
			continue
		}
		if s.registry != nil {
			s.registry.TasksSubmitted.WithLabelValues(s.metricsName).Inc()
		}
	}
}
