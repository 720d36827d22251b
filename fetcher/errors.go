package fetcher

import (
	"context"
	"crypto/x509"
	"fmt"
	"net"
	"net/url"
	"strings"

	ierrors "github.com/cnosuke/tag-audit/internal/errors"
)

// ErrTooManyRedirects is returned by a strategy's redirect policy once its
// allowance is used up.
var ErrTooManyRedirects = ierrors.New("too many redirects")

// StatusError is returned when the final status code is outside the
// strategy's acceptable range.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Kind is the user-facing category of a failed page fetch.
type Kind string

const (
	KindTooManyRedirects Kind = "too_many_redirects"
	KindTimeout          Kind = "timeout"
	KindConnection       Kind = "connection_error"
	KindHTTP             Kind = "http_error"
	KindUnknown          Kind = "unknown"
)

var kindMessages = map[Kind]string{
	KindTooManyRedirects: "The site redirected too many times. It may be stuck in a redirect loop.",
	KindTimeout:          "The site took too long to respond.",
	KindConnection:       "Could not connect to the site. Check that the address is correct and the site is online.",
	KindHTTP:             "The site answered with an error status.",
	KindUnknown:          "The site could not be analyzed.",
}

// Message returns the human-readable text for k.
func (k Kind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return kindMessages[KindUnknown]
}

// Attempt records one failed strategy.
type Attempt struct {
	Strategy string
	URL      string
	Err      error
}

// FetchError is returned when every strategy failed. Kind is derived from
// the last attempt only; earlier attempts are kept for logging.
type FetchError struct {
	Kind     Kind
	Strategy string
	URL      string
	Err      error
	Attempts []Attempt
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("all %d fetch strategies failed, last %s (%s): %v", len(e.Attempts), e.Strategy, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message returns the human-readable text for the error's kind.
func (e *FetchError) Message() string {
	if e.Kind == KindHTTP {
		var se *StatusError
		if ierrors.As(e.Err, &se) {
			return fmt.Sprintf("The site answered with HTTP status %d.", se.StatusCode)
		}
	}
	return e.Kind.Message()
}

func newFetchError(attempts []Attempt) *FetchError {
	if len(attempts) == 0 {
		err := ierrors.New("no fetch strategies configured")
		return &FetchError{Kind: KindUnknown, Err: err}
	}
	last := attempts[len(attempts)-1]
	return &FetchError{
		Kind:     Classify(last.Err),
		Strategy: last.Strategy,
		URL:      last.URL,
		Err:      last.Err,
		Attempts: attempts,
	}
}

var connectionMarkers = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"host is unreachable",
	"certificate",
	"tls:",
	"eof",
}

// Classify maps a fetch error onto a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	msg := strings.ToLower(causeMessage(err))

	var decodeErr *DecodeError
	if ierrors.As(err, &decodeErr) {
		return KindUnknown
	}

	if ierrors.Is(err, ErrTooManyRedirects) || strings.Contains(msg, "redirect") {
		return KindTooManyRedirects
	}

	var netErr net.Error
	if ierrors.Is(err, context.DeadlineExceeded) ||
		(ierrors.As(err, &netErr) && netErr.Timeout()) ||
		strings.Contains(msg, "timeout") {
		return KindTimeout
	}

	var statusErr *StatusError
	if ierrors.As(err, &statusErr) {
		return KindHTTP
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	var certErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	if ierrors.As(err, &opErr) || ierrors.As(err, &dnsErr) ||
		ierrors.As(err, &certErr) || ierrors.As(err, &hostErr) {
		return KindConnection
	}
	for _, marker := range connectionMarkers {
		if strings.Contains(msg, marker) {
			return KindConnection
		}
	}

	return KindUnknown
}

// causeMessage returns the message below any *url.Error so that substring
// checks never match against the request URL itself.
func causeMessage(err error) string {
	var urlErr *url.Error
	if ierrors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
