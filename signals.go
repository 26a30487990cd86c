package testlet

import "github.com/zoobzio/capitan"

// Session lifecycle signals.
var (
	// SessionReset is emitted when a session is (re-)initialized.
	SessionReset = capitan.NewSignal(
		"testlet.session.reset",
		"Session reset to baseline",
	)

	// FluxletCreated is emitted when Given().Fluxlet() constructs the runtime.
	FluxletCreated = capitan.NewSignal(
		"testlet.fluxlet.created",
		"Runtime instance created",
	)

	// PreconditionViolated is emitted when an operation is invoked in a
	// phase where it is unavailable.
	PreconditionViolated = capitan.NewSignal(
		"testlet.precondition.violated",
		"Operation invoked in wrong session phase",
	)
)

// Assertion signals.
var (
	// StateCaptured is emitted when the gatherState side effect or
	// Given().State() refreshes the captured pair.
	StateCaptured = capitan.NewSignal(
		"testlet.state.captured",
		"State pair captured for assertions",
	)

	// ThenInvoked is emitted when a Then callback runs.
	ThenInvoked = capitan.NewSignal(
		"testlet.then.invoked",
		"Then callback invoked",
	)

	// WaitRegistered is emitted when a waitUntil side effect is registered.
	WaitRegistered = capitan.NewSignal(
		"testlet.wait.registered",
		"WaitUntil side effect registered",
	)

	// WaitSatisfied is emitted each time a waitUntil predicate holds.
	WaitSatisfied = capitan.NewSignal(
		"testlet.wait.satisfied",
		"WaitUntil predicate satisfied",
	)
)
