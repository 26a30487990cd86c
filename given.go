package testlet

import (
	"context"

	"github.com/zoobzio/capitan"
)

// gatherStateEffect is the name of the internal side effect that refreshes
// the pair seen by Then on every dispatch.
const gatherStateEffect = "gatherState"

// Given is the configuration builder for a session's runtime. It starts in
// PhaseUninitialized, where only Fluxlet() is available, and moves to
// PhaseReady once the runtime exists. Every configuration method returns the
// builder for chaining.
type Given[S any] struct {
	session *Session[S]
	phase   Phase
}

// Phase returns the builder's current phase.
func (g *Given[S]) Phase() Phase {
	return g.phase
}

// Fluxlet constructs the runtime via the session's factory, registers the
// internal gatherState side effect, and switches the builder to PhaseReady.
// It may be called at most once per session lifetime; a second call fails
// fast.
func (g *Given[S]) Fluxlet() *Given[S] {
	s := g.session
	if g.phase == PhaseReady {
		s.fail("Given.Fluxlet", "a fluxlet has already been created for this session")
		return g
	}
	if s.factory == nil {
		s.fail("Given.Fluxlet", "no runtime factory configured; use WithRuntime or fluxlet.NewSession")
		return g
	}

	s.runtime = s.factory()
	if s.hasLogging {
		s.runtime.Logging(s.logging)
	}

	// Registered first so Then always sees the freshly computed pair
	// before any user-declared side effect runs.
	s.runtime.SideEffects(SideEffect[S]{
		Name: gatherStateEffect,
		Then: func(current, previous S) {
			s.capture(current, previous)
		},
	})

	g.phase = PhaseReady
	capitan.Emit(context.Background(), FluxletCreated,
		KeySession.Field(s.id),
		KeyPhase.Field(g.phase.String()),
	)
	return g
}

// Logging forwards the log configuration to the runtime.
func (g *Given[S]) Logging(cfg LogConfig) *Given[S] {
	if !g.ready("Given.Logging") {
		return g
	}
	g.session.runtime.Logging(cfg)
	return g
}

// Validator forwards a state validator to the runtime.
func (g *Given[S]) Validator(fn func(next S) error) *Given[S] {
	if !g.ready("Given.Validator") {
		return g
	}
	g.session.runtime.Validator(fn)
	return g
}

// State sets the runtime's initial state and seeds the captured pair with
// (initial, initial), so a test may assert on it before any dispatch.
func (g *Given[S]) State(initial S) *Given[S] {
	if !g.ready("Given.State") {
		return g
	}
	g.session.runtime.State(initial)
	g.session.capture(initial, initial)
	return g
}

// Actions wraps every action in the mapping through the spy registry,
// registers the wrapped mapping with the runtime, and re-derives the
// session's dispatchers.
func (g *Given[S]) Actions(actions map[string]Action[S]) *Given[S] {
	if !g.ready("Given.Actions") {
		return g
	}
	s := g.session
	s.runtime.Actions(SpyOnActions(s.spies, actions))
	s.dispatchers = s.runtime.Debug().Dispatchers()
	return g
}

// Calculations wraps and registers calculations. Registration order is
// execution order.
func (g *Given[S]) Calculations(calcs ...Calculation[S]) *Given[S] {
	if !g.ready("Given.Calculations") {
		return g
	}
	s := g.session
	s.runtime.Calculations(SpyOnCalculations(s.spies, calcs...)...)
	return g
}

// SideEffects wraps and registers side effects. Registration order is
// execution order; all user side effects run after gatherState.
func (g *Given[S]) SideEffects(effects ...SideEffect[S]) *Given[S] {
	if !g.ready("Given.SideEffects") {
		return g
	}
	s := g.session
	s.runtime.SideEffects(SpyOnSideEffects(s.spies, effects...)...)
	return g
}

// ready reports whether the builder reached PhaseReady, failing the test
// with the offending method name otherwise.
func (g *Given[S]) ready(method string) bool {
	if g.phase != PhaseReady {
		g.session.fail(method, "a fluxlet must first be created with Given().Fluxlet()")
		return false
	}
	return true
}
