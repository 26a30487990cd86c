package testlet

import "sync"

// Category identifies which spy registry mapping an entry belongs to.
type Category string

const (
	// CategoryAction covers functions registered via Given().Actions.
	CategoryAction Category = "action"

	// CategoryCalculation covers entries registered via Given().Calculations.
	CategoryCalculation Category = "calculation"

	// CategorySideEffect covers entries registered via Given().SideEffects.
	CategorySideEffect Category = "sideEffect"
)

// Call records a single invocation of a spied function.
type Call struct {
	// Args are the arguments the function was invoked with. For actions
	// these are the dispatch arguments; for calculation and side effect
	// members they are the (current, previous) pair.
	Args []any

	// Result is the function's return value, nil for functions that
	// return nothing.
	Result any
}

// Spy records invocations of one wrapped callable while delegating execution
// to the original.
type Spy struct {
	name string

	mu    sync.Mutex
	calls []Call
}

func newSpy(name string) *Spy {
	return &Spy{name: name}
}

// Name returns the spy's qualified name, e.g. "sideEffect.save.then".
func (s *Spy) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (s *Spy) record(args []any, result any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Args: args, Result: result})
}

// Calls returns a snapshot of recorded calls, oldest first.
func (s *Spy) Calls() []Call {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns the number of recorded calls.
func (s *Spy) CallCount() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Called reports whether the spied function was invoked at least once.
func (s *Spy) Called() bool {
	return s.CallCount() > 0
}

// LastCall returns the most recent call and true, or the zero Call and false
// if the function was never invoked.
func (s *Spy) LastCall() (Call, bool) {
	if s == nil {
		return Call{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return Call{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// ConditionalSpy exposes the member spies of a conditional entry. When is nil
// for entries registered without a predicate.
type ConditionalSpy struct {
	When *Spy
	Then *Spy
}

// SpyObserver receives a callback for every spied invocation. It is the
// integration point for external recording frameworks; the registry's own
// in-memory records are kept either way.
type SpyObserver interface {
	ObserveCall(category Category, name string, args []any, result any)
}

// NoopObserver is a no-op SpyObserver.
type NoopObserver struct{}

// ObserveCall implements SpyObserver.
func (NoopObserver) ObserveCall(Category, string, []any, any) {}

// SpyRegistry stores one spy per wrapped callable, grouped by category and
// name. Names are unique within a category; re-registering a name replaces
// its spy.
type SpyRegistry struct {
	observer SpyObserver

	mu           sync.Mutex
	actions      map[string]*Spy
	calculations map[string]*ConditionalSpy
	sideEffects  map[string]*ConditionalSpy
}

// NewSpyRegistry creates an empty registry. A nil observer means no external
// observation.
func NewSpyRegistry(observer SpyObserver) *SpyRegistry {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &SpyRegistry{
		observer:     observer,
		actions:      make(map[string]*Spy),
		calculations: make(map[string]*ConditionalSpy),
		sideEffects:  make(map[string]*ConditionalSpy),
	}
}

// Action returns the spy for a registered action, or nil.
func (r *SpyRegistry) Action(name string) *Spy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actions[name]
}

// Calculation returns the spies for a registered calculation, or nil.
func (r *SpyRegistry) Calculation(name string) *ConditionalSpy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calculations[name]
}

// SideEffect returns the spies for a registered side effect, or nil.
func (r *SpyRegistry) SideEffect(name string) *ConditionalSpy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sideEffects[name]
}

func (r *SpyRegistry) putAction(name string, sp *Spy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = sp
}

func (r *SpyRegistry) putConditional(category Category, name string, cs *ConditionalSpy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch category {
	case CategoryCalculation:
		r.calculations[name] = cs
	case CategorySideEffect:
		r.sideEffects[name] = cs
	}
}

// SpyOnActions wraps every action in the mapping so each invocation is
// recorded in the registry under the action category. The wrapped mapping is
// returned; the originals are not modified.
func SpyOnActions[S any](r *SpyRegistry, actions map[string]Action[S]) map[string]Action[S] {
	wrapped := make(map[string]Action[S], len(actions))
	for name, fn := range actions {
		sp := newSpy(string(CategoryAction) + "." + name)
		r.putAction(name, sp)

		inner := fn
		spiedName := name
		wrapped[name] = func(state S, args ...any) S {
			result := inner(state, args...)
			sp.record(args, result)
			r.observer.ObserveCall(CategoryAction, spiedName, args, result)
			return result
		}
	}
	return wrapped
}

// SpyOnCalculations wraps each calculation's present members individually,
// recording When and Then calls under "calculation.<name>.when" and
// "calculation.<name>.then". Absent When members remain absent.
func SpyOnCalculations[S any](r *SpyRegistry, calcs ...Calculation[S]) []Calculation[S] {
	wrapped := make([]Calculation[S], 0, len(calcs))
	for _, c := range calcs {
		base := string(CategoryCalculation) + "." + c.Name
		cs := &ConditionalSpy{Then: newSpy(base + ".then")}
		out := Calculation[S]{Name: c.Name}

		if c.When != nil {
			cs.When = newSpy(base + ".when")
			innerWhen := c.When
			spiedName := c.Name
			out.When = func(current, previous S) bool {
				ok := innerWhen(current, previous)
				cs.When.record([]any{current, previous}, ok)
				r.observer.ObserveCall(CategoryCalculation, spiedName+".when", []any{current, previous}, ok)
				return ok
			}
		}

		innerThen := c.Then
		spiedName := c.Name
		out.Then = func(current, previous S) S {
			result := innerThen(current, previous)
			cs.Then.record([]any{current, previous}, result)
			r.observer.ObserveCall(CategoryCalculation, spiedName+".then", []any{current, previous}, result)
			return result
		}

		r.putConditional(CategoryCalculation, c.Name, cs)
		wrapped = append(wrapped, out)
	}
	return wrapped
}

// SpyOnSideEffects wraps each side effect's present members individually,
// recording When and Then calls under "sideEffect.<name>.when" and
// "sideEffect.<name>.then". Absent When members remain absent.
func SpyOnSideEffects[S any](r *SpyRegistry, effects ...SideEffect[S]) []SideEffect[S] {
	wrapped := make([]SideEffect[S], 0, len(effects))
	for _, e := range effects {
		base := string(CategorySideEffect) + "." + e.Name
		cs := &ConditionalSpy{Then: newSpy(base + ".then")}
		out := SideEffect[S]{Name: e.Name}

		if e.When != nil {
			cs.When = newSpy(base + ".when")
			innerWhen := e.When
			spiedName := e.Name
			out.When = func(current, previous S) bool {
				ok := innerWhen(current, previous)
				cs.When.record([]any{current, previous}, ok)
				r.observer.ObserveCall(CategorySideEffect, spiedName+".when", []any{current, previous}, ok)
				return ok
			}
		}

		innerThen := e.Then
		spiedName := e.Name
		out.Then = func(current, previous S) {
			innerThen(current, previous)
			cs.Then.record([]any{current, previous}, nil)
			r.observer.ObserveCall(CategorySideEffect, spiedName+".then", []any{current, previous}, nil)
		}

		r.putConditional(CategorySideEffect, e.Name, cs)
		wrapped = append(wrapped, out)
	}
	return wrapped
}
