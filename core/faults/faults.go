package faults

import "errors"

// Category classifies an error so callers can pick a retry or reporting policy.
type Category string

const (
	// Configuration covers missing or corrupt manifests and unreadable config files.
	Configuration Category = "configuration"
	// Ambiguous is returned when a human-readable selector matches several resources.
	Ambiguous Category = "ambiguous"
	// NotFound is returned when a selector or remote resource does not exist.
	NotFound Category = "not_found"
	// Unauthorized is returned when the remote rejects the credentials.
	Unauthorized Category = "unauthorized"
	// Network covers transport failures, timeouts and 5xx responses.
	Network Category = "network"
	// RateLimited is returned when the remote throttles the caller.
	RateLimited Category = "rate_limited"
	// Unknown is everything else.
	Unknown Category = "unknown"
)

// Error is a classified error carrying an optional cause.
type Error struct {
	Category Category
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Category)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New builds a classified error.
func New(category Category, message string, cause error) *Error {
	return &Error{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

// Is reports whether err (or anything it wraps) is a classified error of the given category.
func Is(err error, category Category) bool {
	return CategoryOf(err) == category && err != nil
}

// CategoryOf returns the category of the first classified error in the chain, or Unknown.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	var typed *Error
	if !errors.As(err, &typed) {
		return Unknown
	}
	return typed.Category
}

// Retryable reports whether the failure is transient.
func Retryable(err error) bool {
	switch CategoryOf(err) {
	case Network, RateLimited:
		return true
	default:
		return false
	}
}
