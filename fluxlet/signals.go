package fluxlet

import "github.com/zoobzio/capitan"

// Lifecycle signals.
var (
	// Created is emitted when a Fluxlet is constructed.
	Created = capitan.NewSignal(
		"fluxlet.created",
		"Fluxlet constructed",
	)

	// StateInitialized is emitted when the initial state is set.
	StateInitialized = capitan.NewSignal(
		"fluxlet.state.initialized",
		"Initial state set",
	)

	// Registered is emitted when an action, calculation, or side effect is
	// registered.
	Registered = capitan.NewSignal(
		"fluxlet.registered",
		"Behavior registered",
	)
)

// Dispatch cycle signals.
var (
	// DispatchStarted is emitted when a dispatch begins.
	DispatchStarted = capitan.NewSignal(
		"fluxlet.dispatch.started",
		"Dispatch cycle started",
	)

	// ActionApplied is emitted when the action stage completes.
	ActionApplied = capitan.NewSignal(
		"fluxlet.action.applied",
		"Action applied to state",
	)

	// CalculationApplied is emitted when a calculation stage runs.
	CalculationApplied = capitan.NewSignal(
		"fluxlet.calculation.applied",
		"Calculation applied to state",
	)

	// ValidationFailed is emitted when the validator rejects the derived
	// next state.
	ValidationFailed = capitan.NewSignal(
		"fluxlet.validation.failed",
		"Derived state failed validation",
	)

	// SideEffectFired is emitted when a side effect's Then member runs.
	SideEffectFired = capitan.NewSignal(
		"fluxlet.sideeffect.fired",
		"Side effect fired",
	)

	// DispatchCompleted is emitted when the full cycle finishes.
	DispatchCompleted = capitan.NewSignal(
		"fluxlet.dispatch.completed",
		"Dispatch cycle completed",
	)

	// DispatchFailed is emitted when the pipeline returns an error.
	DispatchFailed = capitan.NewSignal(
		"fluxlet.dispatch.failed",
		"Dispatch cycle failed",
	)
)
