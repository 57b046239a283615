package cmd

// Exit codes for sophttp CLI
const (
	// ExitSuccess indicates the request completed
	ExitSuccess = 0

	// ExitAppError indicates an application-level failure, such as an
	// upstream error document or a failed schema validation
	ExitAppError = 1

	// ExitParseError indicates an unparseable JSON document
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a transport failure
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
