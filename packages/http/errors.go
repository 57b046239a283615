package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	neturl "net/url"
	"syscall"
)

// TransportFailurePrefix starts the body of every failed exchange.
// Downstream CATSOP tooling matches on this exact prefix; do not change it.
const TransportFailurePrefix = "Failed to query. CURL error: "

var (
	// ErrUnsupportedScheme reports a URL scheme other than http or https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	// ErrBadURL reports a URL that could not be parsed or lacks a host.
	ErrBadURL = errors.New("malformed URL")
)

// transportFailureBody renders err as the two-part diagnostic carried in a
// failed response: a stock description of the failure class, then the
// precise error detail.
func transportFailureBody(err error) string {
	return TransportFailurePrefix + stockDescription(err) + " DETAIL: " + failureDetail(err)
}

// stockDescription maps err onto one of a fixed set of failure descriptions.
// Classification is by error class, not by message text, so wrapped and
// platform-specific errors land in the right bucket.
func stockDescription(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedScheme):
		return "Unsupported protocol"
	case errors.Is(err, ErrBadURL):
		return "URL using bad/illegal format or missing URL"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Timeout was reached"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timeout was reached"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "Couldn't resolve host name"
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return "Couldn't connect to server"
	}

	if isCertificateError(err) {
		return "SSL connect error"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "dial":
			return "Couldn't connect to server"
		case "read":
			return "Failure when receiving data from the peer"
		case "write":
			return "Failed sending data to the peer"
		}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return "Transferred a partial file"
	}
	if errors.Is(err, io.EOF) {
		return "Server returned nothing (no headers, no data)"
	}

	return "Weird server reply"
}

func isCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var authorityErr x509.UnknownAuthorityError
	if errors.As(err, &authorityErr) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}

// failureDetail extracts the innermost useful message. url.Error wrappers
// only repeat the verb and URL, which the caller already knows.
func failureDetail(err error) string {
	var urlErr *neturl.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
