package taskpool

import (
	"sync/atomic"
	"testing"
)

// BenchmarkPush measures the overhead of job submission and execution on an
// exclusive pool.
func BenchmarkPush(b *testing.B) {
	pool := NewWithConfig(Config{MaxWorkers: 4, Exclusive: true})
	if err := pool.Prepare(); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			pool.Push(JobFunc(func() {
				// Minimal work
			}))
		}
	})
	b.StopTimer()

	pool.Cleanup()
}

// BenchmarkPushWithWork measures performance with actual work per job.
func BenchmarkPushWithWork(b *testing.B) {
	pool := NewWithConfig(Config{MaxWorkers: 4, Exclusive: true})
	if err := pool.Prepare(); err != nil {
		b.Fatal(err)
	}

	var sink int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			pool.Push(JobFunc(func() {
				sum := 0
				for i := 0; i < 1000; i++ {
					sum += i
				}
				atomic.AddInt64(&sink, int64(sum))
			}))
		}
	})
	b.StopTimer()

	pool.Cleanup()
}

// BenchmarkSchedulePost measures posting to a schedule context.
func BenchmarkSchedulePost(b *testing.B) {
	pool := New()
	if !pool.EnableScheduleThread() {
		b.Fatal("enable schedule thread failed")
	}
	ctx := pool.ScheduleContext()

	var executed int64

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx.Post(func() {
			atomic.AddInt64(&executed, 1)
		})
	}
	b.StopTimer()

	pool.DisableScheduleThread()
}
