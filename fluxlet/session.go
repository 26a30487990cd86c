package fluxlet

import (
	"testing"

	testlet "github.com/Fluxlet/fluxlet-testlet"
)

// NewSession returns a testlet session whose Given().Fluxlet() constructs a
// Fluxlet runtime. This is the common entry point for tests:
//
//	session := fluxlet.NewSession[Counter](t)
//	session.Given().Fluxlet().State(Counter{})
func NewSession[S any](tb testing.TB, opts ...testlet.Option[S]) *testlet.Session[S] {
	all := make([]testlet.Option[S], 0, len(opts)+1)
	all = append(all, testlet.WithRuntime[S](func() testlet.Runtime[S] {
		return New[S]()
	}))
	all = append(all, opts...)
	return testlet.New[S](tb, all...)
}
