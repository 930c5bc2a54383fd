package pet

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a caller supplied argument cannot be used.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedPayload is returned when a document from the query service is missing
	// a required member or carries a value that cannot be coerced.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnauthorized is wrapped by query service implementations when the session is rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoLocation is returned when no location has been fetched yet.
	ErrNoLocation = errors.New("no current location")
	// ErrNoStats is returned when no activity stats have been fetched yet.
	ErrNoStats = errors.New("no activity stats")
	// ErrNoDevice is returned when a collar command is issued before details were applied.
	ErrNoDevice = fmt.Errorf("%w: pet has no device", ErrInvalidInput)
)

// ErrorKind classifies why a refresh or collar command failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNetwork
	KindAuth
	KindMalformedPayload
	KindInvalidInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindMalformedPayload:
		return "malformed_payload"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Classify maps an error returned by a query service or a payload parser onto an ErrorKind.
// Anything that is not recognised is treated as a transport failure.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrMalformedPayload):
		return KindMalformedPayload
	case errors.Is(err, ErrUnauthorized):
		return KindAuth
	default:
		return KindNetwork
	}
}

// Result is the outcome of a refresh or collar command. The zero value is a success.
type Result struct {
	Kind ErrorKind
	Err  error
}

// OK reports whether the operation completed.
func (r Result) OK() bool {
	return r.Err == nil
}

func resultOf(err error) Result {
	return Result{Kind: Classify(err), Err: err}
}
