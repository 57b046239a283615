// Package http provides the HTTP client used to talk to sopnet services.
//
// It wraps the standard library's http package behind a deliberately small
// surface:
//   - GET, POST, PUT and DELETE verbs returning plain Response values
//   - optional basic-auth credentials shared by all requests of a client
//   - transport failures reported as data instead of Go errors
//   - raw header capture with line-level parsing
//
// A Client is not safe for concurrent use; callers that issue requests from
// multiple goroutines must create one Client per goroutine.
package http
