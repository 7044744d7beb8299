package ports

// StatusReporter mirrors the build lifecycle onto the user-facing status
// surface: a busy indicator while a step runs, a success or failure mark
// at the end, and modal notifications for errors worth interrupting for.
//
//go:generate go run go.uber.org/mock/mockgen -source=status.go -destination=mocks/mock_status.go -package=mocks
type StatusReporter interface {
	// Busy marks a build as in progress. The suffix is a human-readable
	// progress label such as "step 2/4 (biber)" and may be empty.
	Busy(suffix string)
	// Success marks the current build as finished successfully.
	Success()
	// Failure marks the current build as failed.
	Failure()
	// Notify surfaces a user-visible error message with a pointer at the
	// captured compiler log.
	Notify(msg string)
}
