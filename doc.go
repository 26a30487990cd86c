// Package testlet provides given/when/then helpers for behavioral tests of
// fluxlet-style state containers.
//
// A Session owns all per-test state: the runtime instance, the spy registry,
// and the most recently captured (current, previous) state pair. Create a
// fresh session (or Reset an existing one) at the start of each test to
// guarantee isolation.
//
// # Given / When / Then
//
// Test setup flows through the Given builder. Before Fluxlet() is called the
// builder is uninitialized and every configuration method fails the test;
// afterwards each method forwards to the runtime and returns the builder for
// chaining:
//
//	session := fluxlet.NewSession[Counter](t)
//	session.Given().Fluxlet().
//	    State(Counter{}).
//	    Actions(map[string]testlet.Action[Counter]{
//	        "inc": func(s Counter, args ...any) Counter {
//	            s.Value += args[0].(int)
//	            return s
//	        },
//	    })
//
//	session.When()["inc"](5)
//
//	session.Then(func(current, previous Counter) {
//	    if current.Value != 5 {
//	        t.Errorf("expected 5, got %d", current.Value)
//	    }
//	})
//
// Every dispatch runs the full transition cycle synchronously: the action,
// all calculations, and all side effects, including the internal gatherState
// side effect that refreshes the pair seen by Then.
//
// # Spies
//
// Actions, calculations, and side effects registered through the builder are
// wrapped so every invocation is recorded:
//
//	if !session.Spies().SideEffect("save").Then.Called() {
//	    t.Error("expected save to fire")
//	}
//
// Conditional entries expose their When and Then members as separate spies.
//
// # WaitUntil
//
// WaitUntil registers a conditional side effect evaluated on every subsequent
// dispatch, letting tests assert on state changes that arrive via a later
// dispatch cycle rather than the immediately-next one:
//
//	session.WaitUntil(func(current, previous Counter) bool {
//	    return current.Value >= 10
//	}).Then(func(current, previous Counter) {
//	    done = true
//	})
//
// # Runtime
//
// The package defines the Runtime contract but no implementation. The fluxlet
// subpackage provides the reference runtime and a pre-wired session
// constructor; any replacement satisfying Runtime can be supplied with
// WithRuntime.
//
// Sessions are designed for use from a single test goroutine. There is no
// internal locking on the dispatch path.
package testlet
