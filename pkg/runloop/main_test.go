package runloop

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// This catches run loops left running after their test finished.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
