package testlet

// Phase represents the lifecycle phase of a session's Given builder.
type Phase int32

const (
	// PhaseUninitialized indicates no runtime exists yet. Only Fluxlet()
	// is available; every other builder method fails fast.
	PhaseUninitialized Phase = iota

	// PhaseReady indicates the runtime has been created. Configuration
	// methods are available and Fluxlet() fails fast.
	PhaseReady
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}
