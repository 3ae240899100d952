// Package apierr carries the machine-readable error kinds every component
// operation returns, generalized from an HTTP-status-keyed error type to a
// transport-agnostic Kind, since no HTTP surface is part of this module.
package apierr

import "fmt"

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidTransition Kind = "invalid_transition"
	KindLLMUnavailable    Kind = "llm_unavailable"
	KindParseFailure      Kind = "parse_failure"
	KindStorageConflict   Kind = "storage_conflict"
	KindCancelled         Kind = "cancelled"
)

// Error is the error type every component-level operation returns on
// failure. Message carries a human-readable sentence alongside the
// machine-readable Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(what string) *Error {
	return New(KindNotFound, fmt.Sprintf("%s not found", what), nil)
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message, nil)
}

func InvalidTransition(message string) *Error {
	return New(KindInvalidTransition, message, nil)
}

func LLMUnavailable(err error) *Error {
	return New(KindLLMUnavailable, "the language model provider is unavailable", err)
}

func ParseFailure(err error) *Error {
	return New(KindParseFailure, "could not parse a structured response", err)
}

func StorageConflict(err error) *Error {
	return New(KindStorageConflict, "a storage transaction conflict could not be resolved", err)
}

func Cancelled() *Error {
	return New(KindCancelled, "the operation was cancelled", nil)
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	return false
}
