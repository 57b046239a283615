package http

import (
	"strings"
	"time"
)

const (
	// StatusTransportError is the status code reported when a request never
	// produced an HTTP status: connection failures, timeouts, malformed
	// replies. The Body then carries a diagnostic string instead of payload.
	StatusTransportError = -1

	// HeaderPresent is the value stored for header lines that carry no
	// colon, such as the status line. The name records that the line was
	// seen; there is no value to keep.
	HeaderPresent = "present"
)

// Response is the outcome of a single request. It is always fully populated
// by the client: either with the remote answer, or with StatusTransportError
// and a diagnostic body when the exchange failed before a status arrived.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func newResponse() *Response {
	return &Response{
		Headers: make(map[string]string),
	}
}

// Write appends a chunk of body data. It implements io.Writer so the
// response can sit directly at the receiving end of a body copy; the final
// Body is the concatenation of all chunks in arrival order.
func (r *Response) Write(p []byte) (int, error) {
	r.Body = append(r.Body, p...)
	return len(p), nil
}

// addHeaderLine records one raw header line. Lines are trimmed of
// surrounding whitespace; blank lines are dropped. A line with a colon is
// split at the first colon into a trimmed name and value, later duplicates
// overwriting earlier ones. A non-empty line without a colon is recorded
// under its full text with the value HeaderPresent.
func (r *Response) addHeaderLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if sep := strings.IndexByte(line, ':'); sep >= 0 {
		name := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])
		r.Headers[name] = value
		return
	}

	r.Headers[line] = HeaderPresent
}

// fail marks the response as a transport failure. Any body accumulated so
// far is replaced by the diagnostic string.
func (r *Response) fail(err error) {
	r.StatusCode = StatusTransportError
	r.Body = []byte(transportFailureBody(err))
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// Header returns the recorded value for name, or "" when absent. Lookup is
// exact: names are kept as they appeared on the wire.
func (r *Response) Header(name string) string {
	return r.Headers[name]
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsTransportError() bool {
	return r.StatusCode == StatusTransportError
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
