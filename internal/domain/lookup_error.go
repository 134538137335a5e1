package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies the pipeline stage at which a lookup failed.
type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureTransport  FailureKind = "transport"
	FailureHTTP       FailureKind = "http"
	FailureDecode     FailureKind = "decode"
)

// User-visible message templates.
const (
	MsgEmptyCity       = "Please enter a city name"
	MsgFetchFailed     = "Failed to fetch weather data"
	MsgParseFailed     = "Failed to parse JSON response"
	httpStatusTemplate = "Error: %d"
)

// LookupError is returned for every failed lookup. Message renders the text
// shown to the user; Error keeps the kind for logs.
type LookupError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

// NewValidationError reports an empty city name.
func NewValidationError() *LookupError {
	return &LookupError{Kind: FailureValidation, Err: errors.New(MsgEmptyCity)}
}

// NewTransportError wraps a failure that prevented receiving a response.
func NewTransportError(err error) *LookupError {
	return &LookupError{Kind: FailureTransport, Err: err}
}

// NewHTTPError reports a non-success status code.
func NewHTTPError(status int) *LookupError {
	return &LookupError{Kind: FailureHTTP, StatusCode: status, Err: fmt.Errorf(httpStatusTemplate, status)}
}

// NewDecodeError wraps a failure to interpret the response body.
func NewDecodeError(err error) *LookupError {
	return &LookupError{Kind: FailureDecode, Err: err}
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s failure: %v", e.Kind, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text for the failure.
// HTTP failures share the fetch template: "Failed to fetch weather data: Error: 404".
func (e *LookupError) Message() string {
	switch e.Kind {
	case FailureValidation:
		return MsgEmptyCity
	case FailureTransport, FailureHTTP:
		return fmt.Sprintf("%s: %s", MsgFetchFailed, causeText(e.Err))
	case FailureDecode:
		return fmt.Sprintf("%s: %s", MsgParseFailed, causeText(e.Err))
	default:
		return causeText(e.Err)
	}
}

// MessageFor renders any error as a user-facing message. Errors that are not
// a *LookupError are reported with the fetch template.
func MessageFor(err error) string {
	if err == nil {
		return ""
	}
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Message()
	}
	return fmt.Sprintf("%s: %s", MsgFetchFailed, err.Error())
}

// KindOf returns the failure kind of err. Untyped errors count as transport
// failures; nil yields "".
func KindOf(err error) FailureKind {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Kind
	}
	if err != nil {
		return FailureTransport
	}
	return ""
}

func causeText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
