// Package cmd implements the sophttp CLI commands using Cobra.
//
// Available commands:
//   - get, post, put, delete: Send a single request and print the response
//   - tree: Fetch a JSON document through the error-aware layer
//   - bench: Measure request latency against one endpoint
//   - history: List recently executed requests
//   - init: Create starter configuration files
//   - version: Show sophttp version information
//
// Transport failures map to exit code 4; upstream error documents and
// failed schema validations map to exit code 1. Plain non-2xx statuses
// exit 0, the response itself is the result.
package cmd
