package testlet

import (
	"testing"
	"time"
)

// pollInterval is how often WaitFor re-checks its condition.
const pollInterval = 10 * time.Millisecond

// WaitFor polls a condition until it returns true or the timeout is reached.
// Returns true if the condition was met, false on timeout. Useful when a
// side effect schedules deferred work outside the runtime's dispatch cycle.
func WaitFor(tb testing.TB, timeout time.Duration, condition func() bool) bool {
	tb.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(pollInterval)
	}
	return false
}
