package testlet

import "github.com/zoobzio/capitan"

// Field keys for session events.
var (
	// KeySession is the unique identifier of the session.
	KeySession = capitan.NewStringKey("session")

	// KeyMethod is the operation name carried on precondition violations.
	KeyMethod = capitan.NewStringKey("method")

	// KeyPhase is the Given builder phase at the time of the event.
	KeyPhase = capitan.NewStringKey("phase")

	// KeyReason is the human-readable explanation of a violation.
	KeyReason = capitan.NewStringKey("reason")

	// KeyName is the name of a registered behavior.
	KeyName = capitan.NewStringKey("name")

	// KeyCategory is the spy category of a registered behavior.
	KeyCategory = capitan.NewStringKey("category")
)
