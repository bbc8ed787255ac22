package sim

// ExitReason tells the process entry point why a simulator run ended.
type ExitReason int

const (
	// ExitUserAction means the user closed the window; the process should end.
	ExitUserAction ExitReason = iota
	// ExitRestart means the project changed or a reload was requested; the
	// caller should start the simulator again.
	ExitRestart
)

// String returns a human-readable name for the reason.
func (r ExitReason) String() string {
	switch r {
	case ExitUserAction:
		return "user action"
	case ExitRestart:
		return "restart"
	default:
		return "unknown"
	}
}
