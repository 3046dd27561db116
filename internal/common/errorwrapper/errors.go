package errorwrapper

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the resolver, the engine and the CLI
var (
	// ErrInvalidURL indicates the input is not an absolute http(s) URL
	ErrInvalidURL = errors.New("invalid URL")
	// ErrRedirectLoop indicates a redirect target already present in the chain
	ErrRedirectLoop = errors.New("redirect loop detected")
	// ErrMaxDepthExceeded indicates the redirect chain outgrew its depth budget
	ErrMaxDepthExceeded = errors.New("maximum redirect depth exceeded")
	// ErrStrategyNotFound indicates an unknown strategy id
	ErrStrategyNotFound = errors.New("strategy not found")
	// ErrInvalidConfiguration indicates configuration issues
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return fmt.Errorf("%s: <nil>", message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewInvalidURLError reports an unparsable input URL. It matches ErrInvalidURL with errors.Is.
func NewInvalidURLError(rawURL string, cause error) *ValidationError {
	msg := "not an absolute http(s) URL"
	if cause != nil {
		msg = cause.Error()
	}
	return &ValidationError{
		Field:   "url",
		Value:   rawURL,
		Message: msg,
		Wrapped: ErrInvalidURL,
	}
}

// NetworkError represents network-related errors
type NetworkError struct {
	URL     string
	Reason  string
	Wrapped error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for URL '%s': %s", e.URL, e.Reason)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// NewNetworkError creates a new network error
func NewNetworkError(url, reason string, wrapped error) *NetworkError {
	return &NetworkError{
		URL:     url,
		Reason:  reason,
		Wrapped: wrapped,
	}
}

// ProcessingError reports a failure while applying a strategy's rules to a URL
type ProcessingError struct {
	StrategyID string
	URL        string
	Wrapped    error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing error for strategy '%s' on URL '%s': %v", e.StrategyID, e.URL, e.Wrapped)
}

func (e *ProcessingError) Unwrap() error {
	return e.Wrapped
}

// NewProcessingError creates a new processing error
func NewProcessingError(strategyID, url string, wrapped error) *ProcessingError {
	return &ProcessingError{
		StrategyID: strategyID,
		URL:        url,
		Wrapped:    wrapped,
	}
}
