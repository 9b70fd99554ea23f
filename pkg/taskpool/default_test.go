package taskpool

import (
	"sync"
	"testing"

	"github.com/vnykmshr/taskpool/internal/testutil"
)

func TestDefaultReturnsSameInstance(t *testing.T) {
	const accessors = 16
	pools := make([]*TaskPool, accessors)

	var wg sync.WaitGroup
	for i := 0; i < accessors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pools[i] = Default()
		}(i)
	}
	wg.Wait()

	first := pools[0]
	if first == nil {
		t.Fatal("Default returned nil")
	}
	for i, p := range pools {
		if p != first {
			t.Errorf("accessor %d got a different pool instance", i)
		}
	}
}

func TestDefaultIsPrepared(t *testing.T) {
	testutil.AssertEqual(t, Default().Prepared(), true)
}

func TestDefaultRejectsScheduleThread(t *testing.T) {
	pool := Default()

	testutil.AssertEqual(t, pool.EnableScheduleThread(), false)
	if pool.ScheduleContext() != nil {
		t.Error("default pool reported a schedule context")
	}

	// Disable on the default pool is rejected, not a refcount underflow.
	pool.DisableScheduleThread()
}
