// Package errs defines the coded application errors used across the server.
// Every failure surfaced to a client carries a stable machine-readable code
// plus a human-readable message.
package errs

import (
	"errors"
	"fmt"
)

// Code is the stable machine-readable identifier of an error class.
type Code string

const (
	CodeValidation       Code = "validation"
	CodeAuth             Code = "auth"
	CodeNotFound         Code = "not_found"
	CodeConflict         Code = "conflict"
	CodeInsufficient     Code = "insufficient_resources"
	CodeInvalidSelection Code = "invalid_selection"
	CodeInvalidTarget    Code = "invalid_target"
	CodeStorage          Code = "storage"
)

// Error is a coded error. Two errors compare equal under errors.Is when their
// codes match, regardless of message or cause.
type Error struct {
	code  Code
	msg   string
	cause error
}

// New creates a coded error with a message.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error that keeps the original cause for errors.Is/As.
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{code: code, msg: msg, cause: cause}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
}

// Unwrap exposes the cause chain.
func (e *Error) Unwrap() error { return e.cause }

// Is matches by code only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t != nil && e.code == t.code
}

// Code returns the machine-readable code.
func (e *Error) Code() Code { return e.code }

// Msg returns the human-readable message.
func (e *Error) Msg() string { return e.msg }

// CodeOf returns the code of the first coded error in err's chain, or ""
// when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}
