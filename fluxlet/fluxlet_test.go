package fluxlet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testlet "github.com/Fluxlet/fluxlet-testlet"
	"github.com/Fluxlet/fluxlet-testlet/fluxlet"
)

type counterState struct {
	Value int `json:"value" validate:"min=0"`
}

func incAction(s counterState, args ...any) counterState {
	s.Value += args[0].(int)
	return s
}

func TestSession_CounterScenario(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		State(counterState{Value: 0}).
		Actions(map[string]testlet.Action[counterState]{"inc": incAction})

	session.When()["inc"](5)

	var invoked bool
	session.Then(func(current, previous counterState) {
		invoked = true
		assert.Equal(t, 5, current.Value)
		assert.Equal(t, 0, previous.Value)
	})
	require.True(t, invoked)
}

func TestSession_ThenBeforeAnyDispatch_SeesInitialPair(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().State(counterState{Value: 3})

	session.Then(func(current, previous counterState) {
		assert.Equal(t, 3, current.Value)
		assert.Equal(t, current, previous)
	})
}

func TestSession_ConditionalSideEffect_WhenFalse(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{"inc": incAction}).
		SideEffects(testlet.SideEffect[counterState]{
			Name: "alert",
			When: func(current, _ counterState) bool { return current.Value > 100 },
			Then: func(_, _ counterState) { t.Error("alert must not fire") },
		})

	session.When()["inc"](1)

	spies := session.Spies().SideEffect("alert")
	require.NotNil(t, spies)
	require.Equal(t, 1, spies.When.CallCount())
	call, ok := spies.When.LastCall()
	require.True(t, ok)
	assert.Equal(t, false, call.Result)
	assert.Equal(t, 0, spies.Then.CallCount())
}

func TestSession_UnconditionalSideEffect_FiresEveryDispatch(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{"inc": incAction}).
		SideEffects(testlet.Effect("audit", func(_, _ counterState) {}))

	session.When()["inc"](1)
	session.When()["inc"](1)

	assert.Equal(t, 2, session.Spies().SideEffect("audit").Then.CallCount())
}

func TestSession_SideEffects_RunInRegistrationOrder(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	var order []string
	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{"inc": incAction}).
		SideEffects(testlet.Effect("first", func(_, _ counterState) {
			order = append(order, "first")
		}))

	session.WaitUntil(func(_, _ counterState) bool { return true }).
		Then(func(_, _ counterState) {
			order = append(order, "wait")
		})

	session.Given().SideEffects(testlet.Effect("last", func(_, _ counterState) {
		order = append(order, "last")
	}))

	session.When()["inc"](1)

	require.Equal(t, []string{"first", "wait", "last"}, order)
}

func TestSession_Calculations_ChainInRegistrationOrder(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{"inc": incAction}).
		Calculations(
			testlet.Calc("double", func(current, _ counterState) counterState {
				current.Value *= 2
				return current
			}),
			testlet.Calc("bump", func(current, _ counterState) counterState {
				current.Value++
				return current
			}),
		)

	session.When()["inc"](3)

	// action: 3, double: 6, bump: 7
	session.Then(func(current, _ counterState) {
		assert.Equal(t, 7, current.Value)
	})
}

func TestSession_ConditionalCalculation_SkippedWhenFalse(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{"inc": incAction}).
		Calculations(testlet.Calculation[counterState]{
			Name: "cap",
			When: func(current, _ counterState) bool { return current.Value > 10 },
			Then: func(current, _ counterState) counterState {
				current.Value = 10
				return current
			},
		})

	session.When()["inc"](4)

	session.Then(func(current, _ counterState) {
		assert.Equal(t, 4, current.Value)
	})
	assert.Equal(t, 0, session.Spies().Calculation("cap").Then.CallCount())
	assert.Equal(t, 1, session.Spies().Calculation("cap").When.CallCount())
}

func TestSession_WaitUntil_Scenario(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{
			"inc":  incAction,
			"noop": testlet.MockAction[counterState](),
		})

	var fired int
	session.WaitUntil(func(current, _ counterState) bool {
		return current.Value >= 10
	}).Then(func(current, previous counterState) {
		fired++
		assert.Equal(t, 10, current.Value)
		assert.Equal(t, 3, previous.Value)
	})

	session.When()["inc"](3)
	session.When()["noop"]()
	require.Zero(t, fired, "predicate is still false")

	session.When()["inc"](7)
	require.Equal(t, 1, fired)
}

func TestSession_MockAction_LeavesStateUnchanged(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		State(counterState{Value: 9}).
		Actions(map[string]testlet.Action[counterState]{
			"noop": testlet.MockAction[counterState](),
		})

	session.When()["noop"]("anything", 1)

	session.Then(func(current, previous counterState) {
		assert.Equal(t, 9, current.Value)
		assert.Equal(t, 9, previous.Value)
	})
}

func TestSession_Validator_AbortsDispatchWithoutCommit(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		Validator(fluxlet.TagValidator[counterState]()).
		State(counterState{Value: 1}).
		Actions(map[string]testlet.Action[counterState]{
			"dec": func(s counterState, args ...any) counterState {
				s.Value -= args[0].(int)
				return s
			},
		})

	require.Panics(t, func() {
		session.When()["dec"](5)
	})

	assert.Equal(t, 1, session.Runtime().Debug().State().Value)
}

func TestSession_Validator_RejectsInvalidInitialState(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	g := session.Given().Fluxlet().Validator(fluxlet.TagValidator[counterState]())

	require.Panics(t, func() {
		g.State(counterState{Value: -1})
	})
}

func TestSession_SideEffectMayDispatchReentrantly(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{
			"boot": testlet.MockAction[counterState](),
			"inc":  incAction,
		}).
		SideEffects(testlet.SideEffect[counterState]{
			Name: "kick",
			When: func(current, _ counterState) bool { return current.Value == 0 },
			Then: func(_, _ counterState) { session.Dispatch("inc", 1) },
		})

	session.Dispatch("boot")

	session.Then(func(current, _ counterState) {
		assert.Equal(t, 1, current.Value)
	})
	assert.Equal(t, 1, session.Runtime().Debug().State().Value)
}

func TestSession_Reset_LeavesNoResidue(t *testing.T) {
	session := fluxlet.NewSession[counterState](t)
	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{"inc": incAction})
	session.When()["inc"](5)

	session.Reset()

	require.Nil(t, session.Runtime())
	require.Nil(t, session.Spies().Action("inc"))

	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{"inc": incAction})
	session.Then(func(current, previous counterState) {
		assert.Zero(t, current.Value)
		assert.Zero(t, previous.Value)
	})
	assert.Equal(t, 0, session.Spies().Action("inc").CallCount())
}

func TestFluxlet_DebugHistory_RetainsRecentDispatches(t *testing.T) {
	f := fluxlet.New[counterState]().HistorySize(2)
	f.State(counterState{})
	f.Actions(map[string]testlet.Action[counterState]{"inc": incAction})

	d := f.Debug().Dispatchers()
	d["inc"](1)
	d["inc"](2)
	d["inc"](3)

	history := f.Debug().History()
	require.Len(t, history, 2)
	assert.Equal(t, []any{2}, history[0].Args)
	assert.Equal(t, []any{3}, history[1].Args)
	assert.Equal(t, "inc", history[0].Action)
}

func TestFluxlet_StateTwice_Panics(t *testing.T) {
	f := fluxlet.New[counterState]()
	f.State(counterState{})

	require.Panics(t, func() {
		f.State(counterState{Value: 1})
	})
}

func TestFluxlet_StateAfterDispatch_Panics(t *testing.T) {
	f := fluxlet.New[counterState]()
	f.Actions(map[string]testlet.Action[counterState]{"inc": incAction})
	f.Debug().Dispatchers()["inc"](1)

	require.Panics(t, func() {
		f.State(counterState{})
	})
}

func TestFluxlet_DuplicateRegistrations_Panic(t *testing.T) {
	f := fluxlet.New[counterState]()
	f.Actions(map[string]testlet.Action[counterState]{"inc": incAction})

	require.Panics(t, func() {
		f.Actions(map[string]testlet.Action[counterState]{"inc": incAction})
	})
	require.NotPanics(t, func() {
		f.SideEffects(testlet.Effect("log", func(_, _ counterState) {}))
	})
	require.Panics(t, func() {
		f.SideEffects(testlet.Effect("log", func(_, _ counterState) {}))
	})
}

func TestSession_WithLogging_DoesNotAffectSemantics(t *testing.T) {
	session := fluxlet.NewSession[counterState](t,
		testlet.WithLogging[counterState](testlet.LogConfig{
			Register: true,
			Dispatch: true,
			Calls:    true,
		}),
	)
	session.Given().Fluxlet().
		State(counterState{}).
		Actions(map[string]testlet.Action[counterState]{"inc": incAction})

	session.When()["inc"](2)

	session.Then(func(current, _ counterState) {
		assert.Equal(t, 2, current.Value)
	})
}
