// Package django layers JSON fetching on top of the HTTP client for
// endpoints served by sopnet's Django backend. Responses come back as
// property trees; non-OK statuses are folded into a substitute error tree
// so callers always have a document to inspect, and CheckError recognizes
// the backend's error reporting shapes.
package django
