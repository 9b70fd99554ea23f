package taskpool

import (
	"fmt"
	"sync"
)

var (
	defaultPool *TaskPool
	defaultOnce sync.Once
)

// Default returns the process-wide shared task pool. It is created and
// prepared on first access and every call returns the same instance.
//
// The default pool exists for the lifetime of the process and is
// intentionally never cleaned up; as a shared resource its teardown order
// against other package-level state is not worth modeling. Callers that
// need Cleanup, custom configuration or a schedule thread should create
// their own pool; EnableScheduleThread is always rejected on this one.
func Default() *TaskPool {
	defaultOnce.Do(func() {
		pool := New()
		pool.shared = true
		if err := pool.Prepare(); err != nil {
			// The default configuration has no failing prepare path.
			panic(fmt.Sprintf("taskpool: preparing default pool: %v", err))
		}
		defaultPool = pool
	})
	return defaultPool
}
