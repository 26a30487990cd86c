package testlet

import "fmt"

// PreconditionError reports a test-authoring mistake: a testlet operation was
// invoked in a session phase where it is not available. Violations are raised
// synchronously via the session's testing.TB; sessions created without one
// panic with the error instead.
type PreconditionError struct {
	// Method is the operation that was invoked.
	Method string

	// Reason explains the unmet precondition.
	Reason string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("testlet: %s: %s", e.Method, e.Reason)
}
