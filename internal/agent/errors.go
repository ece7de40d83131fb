package agent

import (
	"errors"
	"fmt"
)

// Kind classifies a reasoning failure.
type Kind int

const (
	// KindTransport: the request never produced an HTTP response.
	KindTransport Kind = iota
	// KindAPI: the service answered with a non-success status.
	KindAPI
	// KindParse: the service answered but the payload could not be read.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAPI:
		return "api"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is returned by Client.Process. Status and Body are set only for
// KindAPI.
type Error struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAPI:
		return fmt.Sprintf("reasoning api error (status %d): %s", e.Status, e.Body)
	case KindParse:
		return fmt.Sprintf("reasoning response parse error: %v", e.Err)
	default:
		return fmt.Sprintf("reasoning request failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return hasKind(err, KindTransport) }

// IsAPI reports whether err is a non-success response.
func IsAPI(err error) bool { return hasKind(err, KindAPI) }

// IsParse reports whether err is a malformed response.
func IsParse(err error) bool { return hasKind(err, KindParse) }

func hasKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func parseError(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Err: fmt.Errorf(format, args...)}
}
