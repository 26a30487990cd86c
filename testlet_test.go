package testlet

import (
	"fmt"
	"testing"
)

// testState is the state type used across the package tests.
type testState struct {
	Counter int
	Flag    bool
}

// recordingTB captures Fatalf calls instead of stopping the test, so
// precondition failures can be asserted on.
type recordingTB struct {
	testing.TB
	failed  bool
	message string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
}

// fakeRuntime is a minimal Runtime implementation for unit tests. It applies
// the action, then calculations and side effects in registration order, with
// no pipeline machinery.
type fakeRuntime struct {
	state        testState
	hasState     bool
	logging      LogConfig
	loggingCalls int
	validator    func(testState) error
	actions      map[string]Action[testState]
	calculations []Calculation[testState]
	sideEffects  []SideEffect[testState]
	history      []DispatchRecord
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{actions: make(map[string]Action[testState])}
}

func (f *fakeRuntime) Logging(cfg LogConfig) Runtime[testState] {
	f.logging = cfg
	f.loggingCalls++
	return f
}

func (f *fakeRuntime) Validator(fn func(testState) error) Runtime[testState] {
	f.validator = fn
	return f
}

func (f *fakeRuntime) State(initial testState) Runtime[testState] {
	f.state = initial
	f.hasState = true
	return f
}

func (f *fakeRuntime) Actions(actions map[string]Action[testState]) Runtime[testState] {
	for name, fn := range actions {
		f.actions[name] = fn
	}
	return f
}

func (f *fakeRuntime) Calculations(calcs ...Calculation[testState]) Runtime[testState] {
	f.calculations = append(f.calculations, calcs...)
	return f
}

func (f *fakeRuntime) SideEffects(effects ...SideEffect[testState]) Runtime[testState] {
	f.sideEffects = append(f.sideEffects, effects...)
	return f
}

func (f *fakeRuntime) Debug() Debug[testState] {
	return fakeDebug{f}
}

func (f *fakeRuntime) dispatch(name string, args []any) {
	previous := f.state
	next := f.actions[name](previous, args...)
	for _, c := range f.calculations {
		if c.When == nil || c.When(next, previous) {
			next = c.Then(next, previous)
		}
	}
	if f.validator != nil {
		if err := f.validator(next); err != nil {
			panic(err)
		}
	}
	f.state = next
	f.history = append(f.history, DispatchRecord{Action: name, Args: args})
	for _, e := range f.sideEffects {
		if e.When == nil || e.When(next, previous) {
			e.Then(next, previous)
		}
	}
}

type fakeDebug struct {
	f *fakeRuntime
}

func (d fakeDebug) State() testState {
	return d.f.state
}

func (d fakeDebug) Dispatchers() map[string]Dispatcher {
	out := make(map[string]Dispatcher, len(d.f.actions))
	for name := range d.f.actions {
		dispatched := name
		out[name] = func(args ...any) {
			d.f.dispatch(dispatched, args)
		}
	}
	return out
}

func (d fakeDebug) History() []DispatchRecord {
	return d.f.history
}

// newFakeSession wires a session to a fresh fakeRuntime and returns both,
// so tests can inspect what the session forwarded.
func newFakeSession(tb testing.TB) (*Session[testState], *fakeRuntime) {
	rt := newFakeRuntime()
	s := New[testState](tb, WithRuntime[testState](func() Runtime[testState] {
		return rt
	}))
	return s, rt
}

// incAction adds its first argument to the counter.
func incAction(s testState, args ...any) testState {
	s.Counter += args[0].(int)
	return s
}
