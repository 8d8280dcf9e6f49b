package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error so transport layers can translate it without
// inspecting message text.
type Code string

const (
	// CodeValidation covers malformed input: missing required fields, bad
	// student-id format, invalid filter values.
	CodeValidation Code = "validation"
	// CodeConflict covers uniqueness violations and illegal state transitions.
	CodeConflict Code = "conflict"
	// CodeNotFound covers empty collections and unknown records.
	CodeNotFound Code = "not_found"
	// CodeForbidden covers operations the caller may never retry, such as a
	// double-vote attempt.
	CodeForbidden Code = "forbidden"
	// CodeInternal covers infrastructure failures; the message is not safe to
	// surface to callers.
	CodeInternal Code = "internal_error"
	// CodeInvariantViolation marks a broken model invariant detected inside
	// the domain layer. Services convert it to CodeValidation at the boundary.
	CodeInvariantViolation Code = "invariant_violation"
)

// Error is the domain error type. Message carries the caller-facing text.
// Fields is set for per-field failures (uniqueness conflicts) and Missing for
// ordered missing-required-key messages; both are rendered verbatim in the
// HTTP response body.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithFields constructs a per-field failure, e.g. uniqueness conflicts keyed
// by the violated field.
func WithFields(code Code, fields map[string]string) *Error {
	return &Error{Code: code, Message: "validation failed", Fields: fields}
}

// WithMissing constructs a missing-required-keys failure preserving message
// order.
func WithMissing(missing []string) *Error {
	return &Error{Code: CodeValidation, Message: "missing required fields", Missing: missing}
}

// CodeOf extracts the code from err, or CodeInternal when err is not a domain
// error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err is a domain error carrying the given code.
func HasCode(err error, c Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == c
	}
	return false
}

// Is is a readable alias for HasCode at handler call sites.
func Is(err error, c Code) bool {
	return HasCode(err, c)
}
