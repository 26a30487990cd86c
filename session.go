package testlet

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// Option configures a Session at creation or reset time.
type Option[S any] func(*Session[S])

// WithRuntime sets the factory used by Given().Fluxlet() to construct the
// runtime instance. The fluxlet package's NewSession supplies this
// automatically.
func WithRuntime[S any](factory Factory[S]) Option[S] {
	return func(s *Session[S]) {
		s.factory = factory
	}
}

// WithObserver sets an external observer notified of every spied invocation.
func WithObserver[S any](observer SpyObserver) Option[S] {
	return func(s *Session[S]) {
		s.observer = observer
	}
}

// WithLogging sets the log configuration applied to the runtime as soon as
// Given().Fluxlet() creates it.
func WithLogging[S any](cfg LogConfig) Option[S] {
	return func(s *Session[S]) {
		s.logging = cfg
		s.hasLogging = true
	}
}

// Session owns all per-test state: the runtime instance, the spy registry,
// the Given builder, the derived dispatchers, and the captured (current,
// previous) pair. Create one per test, or call Reset between test bodies.
//
// A Session is bound to a single test goroutine; it performs no locking on
// the dispatch path.
type Session[S any] struct {
	tb testing.TB
	id string

	factory    Factory[S]
	observer   SpyObserver
	logging    LogConfig
	hasLogging bool

	runtime     Runtime[S]
	spies       *SpyRegistry
	given       *Given[S]
	dispatchers map[string]Dispatcher

	current  S
	previous S
	waits    int
}

// New creates a session bound to tb and initializes it to a known baseline.
// Precondition violations fail the test via tb.Fatalf; with a nil tb they
// panic with a *PreconditionError instead.
func New[S any](tb testing.TB, opts ...Option[S]) *Session[S] {
	s := &Session[S]{tb: tb}
	s.Reset(opts...)
	return s
}

// Reset re-initializes the session: the runtime instance is discarded, the
// spy registry is cleared, the Given builder returns to the uninitialized
// phase, and the captured pair is zeroed. Options given earlier (runtime
// factory, observer, logging) persist unless overridden.
//
// Call Reset at the start of each test body that reuses a session, so no
// spies or runtime state leak between tests.
func (s *Session[S]) Reset(opts ...Option[S]) {
	var zero S
	s.runtime = nil
	s.dispatchers = nil
	s.current = zero
	s.previous = zero
	s.waits = 0
	s.id = uuid.New().String()

	for _, opt := range opts {
		opt(s)
	}
	if s.observer == nil {
		s.observer = NoopObserver{}
	}
	s.spies = NewSpyRegistry(s.observer)
	s.given = &Given[S]{session: s}

	capitan.Emit(context.Background(), SessionReset,
		KeySession.Field(s.id),
	)
}

// ID returns the session's unique identifier, carried on all emitted signals.
func (s *Session[S]) ID() string {
	return s.id
}

// Given returns the configuration builder for this session.
func (s *Session[S]) Given() *Given[S] {
	return s.given
}

// Runtime returns the active runtime instance, or nil before
// Given().Fluxlet().
func (s *Session[S]) Runtime() Runtime[S] {
	return s.runtime
}

// Spies returns the session's spy registry.
func (s *Session[S]) Spies() *SpyRegistry {
	return s.spies
}

// When returns the dispatchers for all registered actions, keyed by action
// name. Invoking one runs the full transition cycle synchronously,
// culminating in the gatherState side effect refreshing the pair seen by
// Then. The returned map is a copy; mutating it does not affect the session.
// Fails fast while no runtime exists.
func (s *Session[S]) When() map[string]Dispatcher {
	if s.runtime == nil {
		s.fail("When", "a fluxlet must first be created with Given().Fluxlet()")
		return nil
	}
	out := make(map[string]Dispatcher, len(s.dispatchers))
	for name, d := range s.dispatchers {
		out[name] = d
	}
	return out
}

// Dispatch invokes the dispatcher registered under name. It fails fast when
// no runtime exists or no action with that name has been registered.
func (s *Session[S]) Dispatch(name string, args ...any) {
	if s.runtime == nil {
		s.fail("Dispatch", "a fluxlet must first be created with Given().Fluxlet()")
		return
	}
	d, ok := s.dispatchers[name]
	if !ok {
		s.fail("Dispatch", fmt.Sprintf("no action named %q has been registered", name))
		return
	}
	d(args...)
}

// Then invokes fn synchronously with the most recently captured state pair.
// Before any dispatch the pair reflects the state set by Given().State(),
// with current equal to previous. Fails fast while no runtime exists.
func (s *Session[S]) Then(fn func(current, previous S)) {
	if s.runtime == nil {
		s.fail("Then", "a fluxlet must first be created with Given().Fluxlet()")
		return
	}
	capitan.Emit(context.Background(), ThenInvoked,
		KeySession.Field(s.id),
	)
	fn(s.current, s.previous)
}

// WaitUntil returns a registrar whose Then method installs a conditional
// side effect (When = pred) evaluated on every subsequent dispatch. Fails
// fast while no runtime exists.
func (s *Session[S]) WaitUntil(pred Predicate[S]) *Wait[S] {
	if s.runtime == nil {
		s.fail("WaitUntil", "a fluxlet must first be created with Given().Fluxlet()")
		return &Wait[S]{session: s}
	}
	return &Wait[S]{session: s, pred: pred}
}

// capture stores the state pair seen by Then and WaitUntil predicates.
func (s *Session[S]) capture(current, previous S) {
	s.current = current
	s.previous = previous
	capitan.Emit(context.Background(), StateCaptured,
		KeySession.Field(s.id),
	)
}

// fail reports a precondition violation. With a bound testing.TB the test is
// failed immediately; otherwise a *PreconditionError is panicked.
func (s *Session[S]) fail(method, reason string) {
	capitan.Emit(context.Background(), PreconditionViolated,
		KeySession.Field(s.id),
		KeyMethod.Field(method),
		KeyReason.Field(reason),
	)
	if s.tb != nil {
		s.tb.Helper()
		s.tb.Fatalf("testlet: %s: %s", method, reason)
		return
	}
	panic(&PreconditionError{Method: method, Reason: reason})
}
