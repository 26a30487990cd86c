package fluxlet

import "github.com/zoobzio/capitan"

// Field keys for fluxlet events.
var (
	// KeyAction is the name of the dispatched action.
	KeyAction = capitan.NewStringKey("action")

	// KeyName is the name of a calculation or side effect.
	KeyName = capitan.NewStringKey("name")

	// KeyCategory is the registration category of a behavior.
	KeyCategory = capitan.NewStringKey("category")

	// KeyArgs is the number of dispatch arguments.
	KeyArgs = capitan.NewIntKey("args")

	// KeyError is the error message when a stage fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDuration is the wall-clock duration of a completed dispatch.
	KeyDuration = capitan.NewDurationKey("duration")
)
