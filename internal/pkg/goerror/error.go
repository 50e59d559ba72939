// Package goerror carries a user-facing message, a classification and an HTTP
// mapping alongside an optional underlying error.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that the request could not be completed due to a conflict.
	ErrConflict = errors.New("resource conflict")
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	// TypeServer represents server-side failures.
	TypeServer Type = iota
	// TypeBusiness represents business rule violations.
	TypeBusiness
	// TypeValidation represents input validation failures.
	TypeValidation
)

var typeNames = map[Type]string{
	TypeServer:     "ERROR_TYPE_SERVER",
	TypeBusiness:   "ERROR_TYPE_BUSINESS",
	TypeValidation: "ERROR_TYPE_VALIDATION",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidFormat indicates a body that cannot be decoded.
	CodeInvalidFormat
	// CodeInvalidInput indicates a decoded body that fails validation.
	CodeInvalidInput
	// CodeBadRequest indicates a well-formed request that cannot be accepted as is.
	CodeBadRequest
	// CodeUnauthorized indicates a missing or unknown caller.
	CodeUnauthorized
	// CodeTooManyRequest indicates a cooldown or rate limit.
	CodeTooManyRequest
)

var codes = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:       {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:  {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:   {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeBadRequest:     {"ERROR_CODE_BAD_REQUEST", http.StatusBadRequest},
	CodeUnauthorized:   {"ERROR_CODE_UNAUTHORIZED", http.StatusUnauthorized},
	CodeTooManyRequest: {"ERROR_CODE_TOO_MANY_REQUESTS", http.StatusTooManyRequests},
}

func (c Code) String() string {
	if def, ok := codes[c]; ok {
		return def.name
	}
	return codes[CodeInternal].name
}

// Error is a structured error used across the application.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
	data    any
}

// Option customizes an Error at construction time.
type Option func(*Error)

// WithCause attaches an underlying error so callers can match it with errors.Is.
// The user-facing message is kept.
func WithCause(err error) Option {
	return func(e *Error) {
		e.err = err
	}
}

// WithData attaches structured context that is rendered in the response body.
func WithData(data any) Option {
	return func(e *Error) {
		e.data = data
	}
}

func (e *Error) Error() string {
	switch {
	case e.err != nil && e.msg != "" && e.errType == TypeBusiness:
		return e.msg + ": " + e.err.Error()
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	default:
		return "Unknown error"
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType, e.code, e.msg, e.err)
}

// Msg returns the user-facing error message, if set.
func (e *Error) Msg() string { return e.msg }

// Type returns the high-level error type.
func (e *Error) Type() Type { return e.errType }

// Code returns the stable error code.
func (e *Error) Code() Code { return e.code }

// Fields returns validation errors (field to message map), if any.
func (e *Error) Fields() map[string]string { return e.fields }

// Data returns the structured context attached with WithData, if any.
func (e *Error) Data() any { return e.data }

func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	if def, ok := codes[e.code]; ok {
		return def.status
	}
	return http.StatusInternalServerError
}

func newError(err error, msg string, et Type, code Code, opts ...Option) *Error {
	e := &Error{err: err, msg: msg, errType: et, code: code}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error, opts ...Option) error {
	return newError(err, "Internal server error", TypeServer, CodeInternal, opts...)
}

// NewServerMsg creates a server-type error with a custom user-facing message.
func NewServerMsg(err error, msg string, opts ...Option) error {
	return newError(err, msg, TypeServer, CodeInternal, opts...)
}

// NewBusiness creates a business-type error with the specified message and code.
func NewBusiness(msg string, code Code, opts ...Option) error {
	return newError(nil, msg, TypeBusiness, code, opts...)
}

// NewInvalidInput wraps a validator error, or builds field errors from
// key/value pairs when err is nil.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return newError(err, "Validation error", TypeValidation, CodeInvalidInput)
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	e := newError(nil, "Validation error", TypeValidation, CodeInvalidInput)
	e.fields = make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		e.fields[kv[i]] = kv[i+1]
	}
	return e
}

// NewInvalidFormat creates a validation error for an invalid request body format.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return newError(nil, msg, TypeValidation, CodeInvalidFormat)
}
