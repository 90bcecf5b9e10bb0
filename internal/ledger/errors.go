package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies why a transaction request was rejected or failed.
type Kind string

const (
	KindInvalidRequest       Kind = "INVALID_REQUEST"
	KindAccountNotFound      Kind = "ACCOUNT_NOT_FOUND"
	KindCounterpartyNotFound Kind = "COUNTERPARTY_NOT_FOUND"
	KindNameMismatch         Kind = "NAME_MISMATCH"
	KindForbidden            Kind = "FORBIDDEN"
	KindInsufficientFunds    Kind = "INSUFFICIENT_FUNDS"
	KindExecutionFailed      Kind = "EXECUTION_FAILED"
)

// Error is the only error type returned by Validator, Executor and Service.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

func executionFailed(err error) *Error {
	return &Error{Kind: KindExecutionFailed, Message: "transaction could not be committed", Err: err}
}

// KindOf returns the Kind carried by err, or "" when err is nil or not a ledger error.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
