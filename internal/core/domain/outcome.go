package domain

// OutcomeKind classifies how a supervised process terminated.
type OutcomeKind int

const (
	// OutcomeSucceeded indicates the process exited with code zero.
	OutcomeSucceeded OutcomeKind = iota
	// OutcomeExitFailure indicates the process exited non-zero or was
	// terminated by a signal.
	OutcomeExitFailure
	// OutcomeSpawnFailure indicates the process could not be started at all.
	OutcomeSpawnFailure
)

// Outcome is the terminal result of one supervised step execution.
type Outcome struct {
	Kind     OutcomeKind
	ExitCode int
	// Signal is the name of the signal that terminated the process, empty
	// when the process exited on its own.
	Signal string
	// Err carries the spawn error for OutcomeSpawnFailure.
	Err error
}

// Killed reports whether the process was terminated by an explicit kill,
// i.e. a user-initiated termination signal. A killed step never triggers
// the automatic clean-and-retry cycle.
func (o Outcome) Killed() bool {
	switch o.Signal {
	case "SIGTERM", "SIGKILL", "SIGINT", "killed", "terminated", "interrupt":
		return true
	default:
		return false
	}
}
