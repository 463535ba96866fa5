// Package errors carries the error vocabulary shared across osmwatch: a
// small code enum, a wrapping Error type, and the Wire form the HTTP layer
// serializes into response envelopes.
//
// Import it as perr everywhere so it never shadows the stdlib errors
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error for transport and logging.
// Codes travel over the wire, so existing values never move
type ErrorCode uint16

const (
	// ErrorCodeUnknown covers anything we could not classify
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic marks a panic caught by the recover middleware
	ErrorCodePanic

	// ErrorCodeUnavailable marks transient upstream trouble (OSM 5xx, db down)
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests marks upstream rate limiting
	ErrorCodeTooManyRequests

	// ErrorCodeInvalidArgument marks input that is well formed but wrong
	ErrorCodeInvalidArgument

	// ErrorCodeValidation marks body fields that failed validation tags
	ErrorCodeValidation

	// ErrorCodeJSON marks request bodies that did not decode
	ErrorCodeJSON

	// ErrorCodeNotFound marks a missing resource or empty query result
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey marks unique constraint violations
	ErrorCodeDuplicateKey

	// ErrorCodeDB marks database failures with no finer classification
	ErrorCodeDB
)

// HTTPStatusCode maps a code to the status the API responds with
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is the sentinel the store helpers return on empty results.
// Compare with errors.Is
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error pairs a developer-facing message with a machine-facing code.
// field names the offending input field when validation produced the error,
// and orig keeps the wrapped cause on the chain for errors.Is and errors.As
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the shape of an error inside an API response envelope
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap exposes the cause to the stdlib errors package
func (e *Error) Unwrap() error { return e.orig }

// Code returns the classification
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input field, or ""
func (e *Error) Field() string { return e.field }

// ToWire renders the error for an API response. Only msg travels;
// the wrapped cause stays server side
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom renders any error as a Wire payload. Foreign errors come out
// as Unknown with their full text; nil comes out as the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root walks the Unwrap chain to the deepest cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts the code from any error, Unknown when it isn't ours
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether CodeOf(err) equals code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error straight to its response status
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps err to our *Error when one sits anywhere on the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField copies the error with field set so the caller's value stays
// untouched. Foreign errors pass through unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// Constructors

// New builds an *Error from a code and a fixed message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf builds an *Error from a code and a format string
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap keeps orig on the chain behind a code and message of our own
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a format string
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Shorthand constructors for the codes that come up at call sites

// NotFoundf builds a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf builds an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// JSONErrf builds a JSON decode error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf builds a recovered panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// TooManyRequestsf builds a rate limited error
func TooManyRequestsf(format string, a ...any) error { return Newf(ErrorCodeTooManyRequests, format, a...) }

// Unavailablef builds a transient unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Internalf builds an unclassified internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// HTTP resolves an error to a response status and wire payload in one call
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}
