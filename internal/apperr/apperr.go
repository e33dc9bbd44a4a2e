// Package apperr provides the error taxonomy shared by every store
// operation: a typed kind plus a human-readable message, built by one
// normalization path instead of per-operation extraction.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a failure for presentation and exit-code purposes.
type Kind string

const (
	KindTransport    Kind = "transport"    // network unreachable, timeout
	KindAPI          Kind = "api_error"    // server rejected the operation
	KindAuth         Kind = "auth_required"
	KindNotFound     Kind = "not_found"
	KindPrecondition Kind = "precondition" // rejected locally, no network call
	KindValidation   Kind = "validation"   // server-side field validation
	KindUsage        Kind = "usage"
)

// Error is a structured error with kind, message, and optional hint.
type Error struct {
	Kind       Kind
	Message    string
	Hint       string
	HTTPStatus int
	Cause      error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindUsage, KindPrecondition:
		return 1
	case KindNotFound:
		return 2
	case KindAuth:
		return 3
	case KindTransport:
		return 6
	default:
		return 7
	}
}

// Error constructors for common cases.

func ErrUsage(msg string) *Error {
	return &Error{Kind: KindUsage, Message: msg}
}

func ErrUsageHint(msg, hint string) *Error {
	return &Error{Kind: KindUsage, Message: msg, Hint: hint}
}

// ErrPrecondition rejects an operation before any network call is made.
// The message is fixed per call site, e.g. "Shop ID is undefined".
func ErrPrecondition(msg string) *Error {
	return &Error{Kind: KindPrecondition, Message: msg}
}

func ErrAuth(msg string) *Error {
	return &Error{
		Kind:    KindAuth,
		Message: msg,
		Hint:    "Run: pasal auth login",
	}
}

func ErrTransport(cause error) *Error {
	return &Error{
		Kind:  KindTransport,
		Cause: cause,
	}
}

func ErrAPI(status int, msg string) *Error {
	return &Error{Kind: KindAPI, Message: msg, HTTPStatus: status}
}

func ErrNotFound(resource, identifier string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("%s not found: %s", resource, identifier),
		HTTPStatus: 404,
	}
}

// serverBody is the superset of error shapes the API returns: an envelope
// message, a bare error string, or a field-validation map.
type serverBody struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	ErrText string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// FromResponse normalizes a non-2xx (or envelope-rejected) response body
// into an *Error. Message priority: validation map, envelope message, bare
// error string. When the body carries none of these the Message is left
// empty so the caller's Fallback applies.
func FromResponse(status int, body []byte) *Error {
	e := &Error{Kind: KindAPI, HTTPStatus: status}
	switch status {
	case 401, 403:
		e.Kind = KindAuth
	case 404:
		e.Kind = KindNotFound
	}

	var parsed serverBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		switch {
		case len(parsed.Errors) > 0:
			e.Kind = KindValidation
			e.Message = FlattenFieldErrors(parsed.Errors)
		case parsed.Message != "":
			e.Message = parsed.Message
		case parsed.ErrText != "":
			e.Message = parsed.ErrText
		}
	}
	return e
}

// FlattenFieldErrors joins a field-to-message map into one displayable
// string. Fields are sorted so the output is stable.
func FlattenFieldErrors(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return strings.Join(parts, ", ")
}

// Fallback fills in the per-operation message when normalization produced
// nothing displayable. Non-*Error values are wrapped as transport failures.
func Fallback(err error, msg string) *Error {
	if err == nil {
		return nil
	}
	e := As(err)
	if e.Message == "" {
		e.Message = msg
	}
	return e
}

// As converts any error to an *Error, wrapping unknown values as
// transport failures.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindTransport, Message: "", Cause: err}
}
