package cmd

// Exit codes for cukefmt CLI
const (
	// ExitSuccess indicates the run passed and every formatter finished
	ExitSuccess = 0

	// ExitRunFailure indicates the replayed run failed
	ExitRunFailure = 1

	// ExitParseError indicates the message stream could not be parsed
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitBuildError indicates a formatter could not be built or finished
	ExitBuildError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
