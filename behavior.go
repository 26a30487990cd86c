package testlet

// Action transforms the current state into the next state. Dispatch
// arguments are passed through unchanged.
type Action[S any] func(state S, args ...any) S

// Predicate reports whether a conditional behavior applies to a transition.
type Predicate[S any] func(current, previous S) bool

// Dispatcher triggers a full transition cycle for one registered action.
type Dispatcher func(args ...any)

// Calculation derives additional state from a transition. The variant is
// decided at registration time: a nil When means the calculation is
// unconditional and runs on every dispatch.
type Calculation[S any] struct {
	Name string
	When Predicate[S]
	Then func(current, previous S) S
}

// SideEffect is invoked for its effects, not its return value. A nil When
// means the side effect fires on every dispatch.
type SideEffect[S any] struct {
	Name string
	When Predicate[S]
	Then func(current, previous S)
}

// Calc returns an unconditional calculation.
func Calc[S any](name string, then func(current, previous S) S) Calculation[S] {
	return Calculation[S]{Name: name, Then: then}
}

// Effect returns an unconditional side effect.
func Effect[S any](name string, then func(current, previous S)) SideEffect[S] {
	return SideEffect[S]{Name: name, Then: then}
}

// MockAction returns an action that leaves the state unchanged regardless of
// arguments. Useful as a stand-in when a test only cares about triggering a
// dispatch cycle.
func MockAction[S any]() Action[S] {
	return func(state S, _ ...any) S {
		return state
	}
}
