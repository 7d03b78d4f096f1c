package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a model call failure for the engine's retry policy.
type Kind int

const (
	// KindUnknown covers failures that cannot be classified. Not retried.
	KindUnknown Kind = iota
	// KindTransient covers timeouts, rate limits and transport failures.
	// Retried up to the configured budget.
	KindTransient
	// KindAuth covers authentication and authorization failures. Never retried.
	KindAuth
	// KindInvalidRequest covers malformed or rejected requests. Never retried.
	KindInvalidRequest
)

// String returns the kind's wire name.
func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindAuth:
		return "auth"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Error represents a failure from a model client.
type Error struct {
	Provider string
	Kind     Kind
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s error: %s (%v)", e.Provider, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Provider, e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err represents a retryable failure.
func IsTransient(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == KindTransient
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// transientMarkers and authMarkers match common failure text emitted by
// model CLIs and HTTP backends.
var (
	transientMarkers = []string{
		"timeout", "timed out", "rate limit", "429", "overloaded",
		"connection refused", "connection reset", "temporarily unavailable",
		"503", "502", "504",
	}
	authMarkers = []string{
		"unauthorized", "401", "403", "forbidden", "api key",
		"not logged in", "authentication",
	}
	invalidMarkers = []string{
		"invalid request", "400", "bad request", "unknown model",
		"model not found", "unsupported",
	}
)

// classify builds an *Error from raw failure output, mapping recognizable
// messages onto the retry taxonomy.
func classify(providerName, message string, err error) *Error {
	kind := KindUnknown
	lower := strings.ToLower(message)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTransient
	case matchAny(lower, authMarkers):
		kind = KindAuth
	case matchAny(lower, transientMarkers):
		kind = KindTransient
	case matchAny(lower, invalidMarkers):
		kind = KindInvalidRequest
	}

	return &Error{
		Provider: providerName,
		Kind:     kind,
		Message:  strings.TrimSpace(message),
		Err:      err,
	}
}

func matchAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
