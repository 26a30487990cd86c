// Package cond builds testlet predicates from expr-lang expressions.
//
// Expressions see two variables, current and previous, bound to the state
// pair of the transition under evaluation:
//
//	session.WaitUntil(cond.MustExpr[Counter]("current.Value >= 10")).
//	    Then(func(current, previous Counter) { done = true })
package cond

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	testlet "github.com/Fluxlet/fluxlet-testlet"
)

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*vm.Program)
)

// Expr compiles src into a predicate over the (current, previous) state
// pair. The expression must evaluate to a bool; any other result, or a
// runtime evaluation error, makes the predicate return false.
func Expr[S any](src string) (testlet.Predicate[S], error) {
	program, err := compile(src)
	if err != nil {
		return nil, err
	}
	return func(current, previous S) bool {
		out, err := expr.Run(program, map[string]any{
			"current":  current,
			"previous": previous,
		})
		if err != nil {
			return false
		}
		b, ok := out.(bool)
		return ok && b
	}, nil
}

// MustExpr is like Expr but panics on compile errors. Intended for test
// code, where a malformed expression should fail immediately.
func MustExpr[S any](src string) testlet.Predicate[S] {
	p, err := Expr[S](src)
	if err != nil {
		panic(err)
	}
	return p
}

// compile returns the cached program for src, compiling on first use.
func compile(src string) (*vm.Program, error) {
	cacheMu.RLock()
	if p, ok := cache[src]; ok {
		cacheMu.RUnlock()
		return p, nil
	}
	cacheMu.RUnlock()

	program, err := expr.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("cond: compile %q: %w", src, err)
	}

	cacheMu.Lock()
	cache[src] = program
	cacheMu.Unlock()
	return program, nil
}
