// Package fluxlet provides the reference runtime for testlet sessions.
//
// A Fluxlet owns a single state value and processes every dispatch through a
// pipeline:
//
//	Action → Calculations → Validate → Commit → Side Effects
//
// Calculations and side effects execute in registration order. The caller
// blocks until the whole cycle has run; there is no internal scheduling or
// debouncing. Failures inside the pipeline (a failing validator, a panicking
// action) propagate to the dispatching caller unmodified.
//
// A Fluxlet is not safe for concurrent use. Testlet sessions drive it from a
// single test goroutine; side effects may dispatch further actions
// re-entrantly because state is committed before they run.
package fluxlet

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"

	testlet "github.com/Fluxlet/fluxlet-testlet"
)

// DefaultHistorySize is the number of completed dispatches retained by the
// debug history ring.
const DefaultHistorySize = 32

// Dispatch carries one transition through the processing pipeline. Pipeline
// stages read and replace Current; Previous is the committed state at the
// time the dispatch started.
type Dispatch[S any] struct {
	Action   string
	Args     []any
	Previous S
	Current  S
}

// Fluxlet is a small unidirectional state container satisfying the
// testlet.Runtime contract.
type Fluxlet[S any] struct {
	clock   clockz.Clock
	logging testlet.LogConfig

	state      S
	hasState   bool
	dispatched bool

	validator    func(next S) error
	actions      map[string]testlet.Action[S]
	calculations []testlet.Calculation[S]
	sideEffects  []testlet.SideEffect[S]
	effectNames  map[string]struct{}
	calcNames    map[string]struct{}

	history *dispatchRing
}

// New creates an empty Fluxlet with no state, actions, or validator.
func New[S any]() *Fluxlet[S] {
	f := &Fluxlet[S]{
		clock:       clockz.RealClock,
		actions:     make(map[string]testlet.Action[S]),
		calcNames:   make(map[string]struct{}),
		effectNames: make(map[string]struct{}),
		history:     newDispatchRing(DefaultHistorySize),
	}
	capitan.Emit(context.Background(), Created)
	return f
}

// Clock sets a custom clock for dispatch timing. Use clockz.FakeClock for
// deterministic duration fields in dispatch signals. Must be called before
// dispatching.
func (f *Fluxlet[S]) Clock(clock clockz.Clock) *Fluxlet[S] {
	f.clock = clock
	return f
}

// HistorySize resizes the debug dispatch history ring, discarding any
// records collected so far. Use 0 to disable history.
func (f *Fluxlet[S]) HistorySize(n int) *Fluxlet[S] {
	f.history = newDispatchRing(n)
	return f
}

// Logging configures which runtime events are emitted as capitan signals.
func (f *Fluxlet[S]) Logging(cfg testlet.LogConfig) testlet.Runtime[S] {
	f.logging = cfg
	return f
}

// Validator sets a validator run against the fully derived next state before
// it is committed. A failing validator aborts the dispatch without
// committing; the error propagates to the dispatching caller as a panic.
// The validator is also applied to the initial state set via State.
func (f *Fluxlet[S]) Validator(fn func(next S) error) testlet.Runtime[S] {
	f.validator = fn
	return f
}

// State sets the initial state. It may be called at most once, and only
// before the first dispatch; violations panic. The configured validator, if
// any, is applied immediately.
func (f *Fluxlet[S]) State(initial S) testlet.Runtime[S] {
	if f.hasState {
		panic(fmt.Errorf("fluxlet: initial state already set"))
	}
	if f.dispatched {
		panic(fmt.Errorf("fluxlet: cannot set initial state after a dispatch"))
	}
	if f.validator != nil {
		if err := f.validator(initial); err != nil {
			panic(fmt.Errorf("fluxlet: initial state invalid: %w", err))
		}
	}
	f.state = initial
	f.hasState = true
	if f.logging.Register {
		capitan.Emit(context.Background(), StateInitialized)
	}
	return f
}

// Actions registers named actions. Names must be unique across all Actions
// calls; duplicates panic.
func (f *Fluxlet[S]) Actions(actions map[string]testlet.Action[S]) testlet.Runtime[S] {
	for name, fn := range actions {
		if _, exists := f.actions[name]; exists {
			panic(fmt.Errorf("fluxlet: action %q already registered", name))
		}
		if fn == nil {
			panic(fmt.Errorf("fluxlet: action %q is nil", name))
		}
		f.actions[name] = fn
		f.logRegistered("action", name)
	}
	return f
}

// Calculations registers calculations in the given order. Successive calls
// append; names must be unique across all calls.
func (f *Fluxlet[S]) Calculations(calcs ...testlet.Calculation[S]) testlet.Runtime[S] {
	for _, c := range calcs {
		if _, exists := f.calcNames[c.Name]; exists {
			panic(fmt.Errorf("fluxlet: calculation %q already registered", c.Name))
		}
		if c.Then == nil {
			panic(fmt.Errorf("fluxlet: calculation %q has no Then member", c.Name))
		}
		f.calcNames[c.Name] = struct{}{}
		f.calculations = append(f.calculations, c)
		f.logRegistered("calculation", c.Name)
	}
	return f
}

// SideEffects registers side effects in the given order. Successive calls
// append; names must be unique across all calls.
func (f *Fluxlet[S]) SideEffects(effects ...testlet.SideEffect[S]) testlet.Runtime[S] {
	for _, e := range effects {
		if _, exists := f.effectNames[e.Name]; exists {
			panic(fmt.Errorf("fluxlet: side effect %q already registered", e.Name))
		}
		if e.Then == nil {
			panic(fmt.Errorf("fluxlet: side effect %q has no Then member", e.Name))
		}
		f.effectNames[e.Name] = struct{}{}
		f.sideEffects = append(f.sideEffects, e)
		f.logRegistered("sideEffect", e.Name)
	}
	return f
}

// Debug returns an inspection view of the fluxlet's internals.
func (f *Fluxlet[S]) Debug() testlet.Debug[S] {
	return debugView[S]{f}
}

func (f *Fluxlet[S]) logRegistered(category, name string) {
	if !f.logging.Register {
		return
	}
	capitan.Emit(context.Background(), Registered,
		KeyCategory.Field(category),
		KeyName.Field(name),
	)
}

// dispatch runs one full transition cycle for the named action.
func (f *Fluxlet[S]) dispatch(ctx context.Context, name string, args []any) {
	action, ok := f.actions[name]
	if !ok {
		panic(fmt.Errorf("fluxlet: no action named %q", name))
	}

	start := f.clock.Now()
	if f.logging.Dispatch {
		capitan.Emit(ctx, DispatchStarted,
			KeyAction.Field(name),
			KeyArgs.Field(len(args)),
		)
	}

	d := &Dispatch[S]{
		Action:   name,
		Args:     args,
		Previous: f.state,
		Current:  f.state,
	}

	if _, err := f.pipeline(name, action).Process(ctx, d); err != nil {
		if f.logging.Dispatch {
			capitan.Emit(ctx, DispatchFailed,
				KeyAction.Field(name),
				KeyError.Field(err.Error()),
			)
		}
		panic(fmt.Errorf("fluxlet: dispatch %s: %w", name, err))
	}

	f.history.push(testlet.DispatchRecord{Action: name, Args: args})
	f.dispatched = true

	if f.logging.Dispatch {
		capitan.Emit(ctx, DispatchCompleted,
			KeyAction.Field(name),
			KeyDuration.Field(f.clock.Since(start)),
		)
	}
}

// pipeline composes the transition cycle for one dispatch. Built per
// dispatch so registrations between dispatches always take effect.
func (f *Fluxlet[S]) pipeline(name string, action testlet.Action[S]) pipz.Chainable[*Dispatch[S]] {
	stages := make([]pipz.Chainable[*Dispatch[S]], 0, len(f.calculations)+len(f.sideEffects)+3)

	stages = append(stages, pipz.Transform(pipz.Name("action:"+name),
		func(ctx context.Context, d *Dispatch[S]) *Dispatch[S] {
			d.Current = action(d.Current, d.Args...)
			if f.logging.Calls {
				capitan.Emit(ctx, ActionApplied, KeyAction.Field(name))
			}
			return d
		}))

	for _, c := range f.calculations {
		stages = append(stages, f.calculationStage(c))
	}

	stages = append(stages, pipz.Effect(pipz.Name("validate"),
		func(ctx context.Context, d *Dispatch[S]) error {
			if f.validator == nil {
				return nil
			}
			if err := f.validator(d.Current); err != nil {
				capitan.Emit(ctx, ValidationFailed,
					KeyAction.Field(d.Action),
					KeyError.Field(err.Error()),
				)
				return fmt.Errorf("validation failed: %w", err)
			}
			return nil
		}))

	stages = append(stages, pipz.Effect(pipz.Name("commit"),
		func(_ context.Context, d *Dispatch[S]) error {
			f.state = d.Current
			return nil
		}))

	for _, e := range f.sideEffects {
		stages = append(stages, f.sideEffectStage(e))
	}

	return pipz.NewSequence(pipz.Name("dispatch:"+name), stages...)
}

func (f *Fluxlet[S]) calculationStage(c testlet.Calculation[S]) pipz.Chainable[*Dispatch[S]] {
	transformer := func(ctx context.Context, d *Dispatch[S]) *Dispatch[S] {
		d.Current = c.Then(d.Current, d.Previous)
		if f.logging.Calls {
			capitan.Emit(ctx, CalculationApplied, KeyName.Field(c.Name))
		}
		return d
	}
	if c.When == nil {
		return pipz.Transform(pipz.Name("calculation:"+c.Name), transformer)
	}
	return pipz.Mutate(pipz.Name("calculation:"+c.Name), transformer,
		func(_ context.Context, d *Dispatch[S]) bool {
			return c.When(d.Current, d.Previous)
		})
}

func (f *Fluxlet[S]) sideEffectStage(e testlet.SideEffect[S]) pipz.Chainable[*Dispatch[S]] {
	run := pipz.Effect(pipz.Name("sideEffect:"+e.Name),
		func(ctx context.Context, d *Dispatch[S]) error {
			e.Then(d.Current, d.Previous)
			if f.logging.Calls {
				capitan.Emit(ctx, SideEffectFired, KeyName.Field(e.Name))
			}
			return nil
		})
	if e.When == nil {
		return run
	}
	return pipz.NewFilter(pipz.Name("sideEffect:"+e.Name),
		func(_ context.Context, d *Dispatch[S]) bool {
			return e.When(d.Current, d.Previous)
		}, run)
}

// debugView implements testlet.Debug over a Fluxlet.
type debugView[S any] struct {
	f *Fluxlet[S]
}

// State returns the current committed state.
func (d debugView[S]) State() S {
	return d.f.state
}

// Dispatchers returns one dispatcher per registered action.
func (d debugView[S]) Dispatchers() map[string]testlet.Dispatcher {
	out := make(map[string]testlet.Dispatcher, len(d.f.actions))
	for name := range d.f.actions {
		dispatched := name
		out[name] = func(args ...any) {
			d.f.dispatch(context.Background(), dispatched, args)
		}
	}
	return out
}

// History returns recent completed dispatches, oldest first.
func (d debugView[S]) History() []testlet.DispatchRecord {
	return d.f.history.all()
}

// Ensure Fluxlet implements the runtime contract.
var _ testlet.Runtime[struct{}] = (*Fluxlet[struct{}])(nil)
