package testlet

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
)

// Wait registers an assertion side effect on the session's runtime. Obtain
// one via Session.WaitUntil.
type Wait[S any] struct {
	session *Session[S]
	pred    Predicate[S]
}

// Then registers a conditional side effect with the runtime: When is the
// wait predicate, Then is the callback. The effect is appended at its
// registration position, so it runs after every side effect registered
// before it and before any registered later. It is evaluated on every
// subsequent dispatch and fires each time the predicate holds for the
// (current, previous) pair.
func (w *Wait[S]) Then(fn func(current, previous S)) {
	s := w.session
	if s.runtime == nil || w.pred == nil {
		// WaitUntil already reported the violation.
		return
	}

	s.waits++
	name := fmt.Sprintf("waitUntil-%d", s.waits)
	pred := w.pred

	s.runtime.SideEffects(SideEffect[S]{
		Name: name,
		When: pred,
		Then: func(current, previous S) {
			capitan.Emit(context.Background(), WaitSatisfied,
				KeySession.Field(s.id),
				KeyName.Field(name),
			)
			fn(current, previous)
		},
	})

	capitan.Emit(context.Background(), WaitRegistered,
		KeySession.Field(s.id),
		KeyName.Field(name),
		KeyCategory.Field(string(CategorySideEffect)),
	)
}
