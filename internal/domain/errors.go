package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals a missing or malformed startup document. Fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation signals malformed caller input.
	ErrValidation = errors.New("validation error")
	// ErrUpstream signals a completion service failure (transport, status, quota).
	ErrUpstream = errors.New("completion service error")
	// ErrUpstreamTimeout signals that the completion call ran out of time.
	ErrUpstreamTimeout = fmt.Errorf("completion service timeout: %w", ErrUpstream)
	// ErrParse signals a model reply that could not be interpreted.
	ErrParse = errors.New("failed to parse model reply")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a request field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConfigurationError wraps ErrConfiguration with the document it concerns.
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrConfiguration.Error(), e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() []error { return []error{ErrConfiguration, e.Err} }

// NewConfigurationError creates a configuration error for the given source.
func NewConfigurationError(source string, err error) error {
	return &ConfigurationError{Source: source, Err: err}
}
