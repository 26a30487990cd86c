package testlet

// LogConfig controls which runtime events are emitted as capitan signals.
type LogConfig struct {
	// Register enables logging of action, calculation, and side effect
	// registration.
	Register bool

	// Dispatch enables logging of dispatch start and completion.
	Dispatch bool

	// Calls enables logging of individual action, calculation, and side
	// effect invocations within a dispatch.
	Calls bool
}

// Runtime is the contract a state-management runtime must satisfy to be
// driven by a Session. The fluxlet package provides the reference
// implementation.
//
// Configuration methods return the runtime to support chaining. Calculations
// and side effects are registered in argument order; successive calls append.
// That order is the execution order within a dispatch.
type Runtime[S any] interface {
	// Logging configures which runtime events are emitted as signals.
	Logging(cfg LogConfig) Runtime[S]

	// Validator sets a validator run against the fully derived next state
	// before it is committed.
	Validator(fn func(next S) error) Runtime[S]

	// State sets the initial state. May be called at most once, and only
	// before the first dispatch.
	State(initial S) Runtime[S]

	// Actions registers named actions. Names must be unique across all
	// Actions calls.
	Actions(actions map[string]Action[S]) Runtime[S]

	// Calculations registers calculations in the given order.
	Calculations(calcs ...Calculation[S]) Runtime[S]

	// SideEffects registers side effects in the given order.
	SideEffects(effects ...SideEffect[S]) Runtime[S]

	// Debug exposes the runtime's internals for inspection.
	Debug() Debug[S]
}

// Debug is the runtime's inspection surface.
type Debug[S any] interface {
	// State returns the current committed state.
	State() S

	// Dispatchers returns one dispatcher per registered action, keyed by
	// action name. Invoking a dispatcher runs the full transition cycle
	// synchronously.
	Dispatchers() map[string]Dispatcher

	// History returns recent completed dispatches, oldest first.
	History() []DispatchRecord
}

// DispatchRecord describes one completed dispatch.
type DispatchRecord struct {
	Action string
	Args   []any
}

// Factory constructs a fresh runtime instance. A Session calls it exactly
// once, from Given().Fluxlet().
type Factory[S any] func() Runtime[S]
