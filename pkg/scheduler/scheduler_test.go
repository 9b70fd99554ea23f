package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/taskpool/internal/testutil"
	"github.com/vnykmshr/taskpool/pkg/metrics"
	"github.com/vnykmshr/taskpool/pkg/taskpool"
)

func TestScheduler_BasicScheduling(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	var executed int32
	job := taskpool.JobFunc(func() {
		atomic.AddInt32(&executed, 1)
	})

	// Immediate scheduling
	if err := s.Schedule("test1", job, time.Now()); err != nil {
		t.Fatal(err)
	}

	// Delayed scheduling
	if err := s.ScheduleAfter("test2", job, 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	testutil.WaitForInt32(t, &executed, 2, 500*time.Millisecond)
}

func TestScheduler_RepeatingJob(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	var executed int32
	job := taskpool.JobFunc(func() {
		atomic.AddInt32(&executed, 1)
	})

	if err := s.ScheduleRepeating("repeat", job, 75*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) >= 3
	}, 500*time.Millisecond, 20*time.Millisecond)
}

func TestScheduler_CronScheduling(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	var executed int32
	job := taskpool.JobFunc(func() {
		atomic.AddInt32(&executed, 1)
	})

	// Run every second
	if err := s.ScheduleCron("cron", "* * * * * *", job); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) > 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestScheduler_EntryManagement(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	job := taskpool.JobFunc(func() {})

	// Duplicate ID prevention
	if err := s.Schedule("dup", job, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("dup", job, time.Now().Add(time.Hour)); err == nil {
		t.Error("should not allow duplicate entry IDs")
	}

	entries := s.List()
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}

	if !s.Cancel("dup") {
		t.Error("should successfully cancel existing entry")
	}
	if s.Cancel("nonexistent") {
		t.Error("should return false for nonexistent entry")
	}

	// CancelAll empties the schedule
	if err := s.Schedule("a", job, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("b", job, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	s.CancelAll()
	if len(s.List()) != 0 {
		t.Error("CancelAll left entries behind")
	}
}

func TestScheduler_Validation(t *testing.T) {
	s := New()
	job := taskpool.JobFunc(func() {})

	tests := []struct {
		name string
		fn   func() error
	}{
		{"empty ID", func() error { return s.Schedule("", job, time.Now()) }},
		{"nil job", func() error { return s.Schedule("id", nil, time.Now()) }},
		{"zero time", func() error { return s.Schedule("id", job, time.Time{}) }},
		{"zero interval", func() error { return s.ScheduleRepeating("id", job, 0) }},
		{"empty cron", func() error { return s.ScheduleCron("id", "", job) }},
		{"bad cron", func() error { return s.ScheduleCron("id", "not a cron", job) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start should fail while running")
	}

	<-s.Stop()

	// Stop on a stopped scheduler returns a closed channel.
	select {
	case <-s.Stop():
	case <-time.After(time.Second):
		t.Fatal("Stop on stopped scheduler blocked")
	}

	// Restart works.
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	<-s.Stop()
}

func TestScheduler_StopDrainsOwnedPool(t *testing.T) {
	s := New()
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	var executed int32
	if err := s.Schedule("slow", taskpool.JobFunc(func() {
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&executed, 1)
	}), time.Now()); err != nil {
		t.Fatal(err)
	}

	// Give the ticker a chance to hand the job to the pool.
	testutil.Eventually(t, func() bool {
		return len(s.List()) == 0
	}, time.Second, 5*time.Millisecond)

	<-s.Stop()

	// The owned pool drained before Stop's channel closed.
	testutil.AssertEqual(t, atomic.LoadInt32(&executed), int32(1))
}

func TestScheduler_InjectedPool(t *testing.T) {
	pool := taskpool.NewWithConfig(taskpool.Config{MaxWorkers: 1})
	testutil.AssertNoError(t, pool.Prepare())
	defer pool.Cleanup()

	s := NewWithConfig(Config{Pool: pool, TickInterval: 10 * time.Millisecond})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() { <-s.Stop() }()

	var executed int32
	if err := s.Schedule("job", taskpool.JobFunc(func() {
		atomic.AddInt32(&executed, 1)
	}), time.Now()); err != nil {
		t.Fatal(err)
	}

	testutil.WaitForInt32(t, &executed, 1, time.Second)
}

func TestScheduler_Metrics(t *testing.T) {
	s := NewWithConfig(Config{
		MetricsName:  "metrics_sched",
		TickInterval: 10 * time.Millisecond,
	})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() { <-s.Stop() }()

	var executed int32
	if err := s.Schedule("counted", taskpool.JobFunc(func() {
		atomic.AddInt32(&executed, 1)
	}), time.Now()); err != nil {
		t.Fatal(err)
	}

	testutil.WaitForInt32(t, &executed, 1, time.Second)

	scheduled := promtestutil.ToFloat64(
		metrics.DefaultRegistry.TasksScheduled.WithLabelValues("metrics_sched"))
	submitted := promtestutil.ToFloat64(
		metrics.DefaultRegistry.TasksSubmitted.WithLabelValues("metrics_sched"))

	testutil.AssertEqual(t, scheduled, 1.0)
	testutil.AssertEqual(t, submitted, 1.0)
}
