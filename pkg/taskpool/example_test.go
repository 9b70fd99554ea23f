package taskpool_test

import (
	"fmt"
	"sync"

	"github.com/vnykmshr/taskpool/pkg/taskpool"
)

// Example demonstrates the pool lifecycle: prepare, push, cleanup.
func Example() {
	pool := taskpool.NewWithConfig(taskpool.Config{MaxWorkers: 2})
	if err := pool.Prepare(); err != nil {
		fmt.Println("prepare failed:", err)
		return
	}

	pool.Push(taskpool.JobFunc(func() {
		fmt.Println("job executed")
	}))

	// Cleanup blocks until every accepted job has finished.
	pool.Cleanup()

	// Output: job executed
}

// Example_scheduleThread demonstrates ordered execution on a pool's
// schedule thread.
func Example_scheduleThread() {
	pool := taskpool.New()

	if !pool.EnableScheduleThread() {
		fmt.Println("schedule thread unavailable")
		return
	}
	defer pool.DisableScheduleThread()

	loop := pool.ScheduleContext()

	var wg sync.WaitGroup
	wg.Add(2)
	loop.Post(func() {
		defer wg.Done()
		fmt.Println("first")
	})
	loop.Post(func() {
		defer wg.Done()
		fmt.Println("second")
	})
	wg.Wait()

	// Output:
	// first
	// second
}

// Example_defaultPool demonstrates the shared process-wide pool.
func Example_defaultPool() {
	pool := taskpool.Default()

	// The default pool is prepared on first access and shared by every
	// caller; it never supports a schedule thread.
	fmt.Println("prepared:", pool.Prepared())
	fmt.Println("schedule thread:", pool.EnableScheduleThread())

	// Output:
	// prepared: true
	// schedule thread: false
}
