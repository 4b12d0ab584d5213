package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates that the request was rate limited.
	ErrRateLimited = errors.New("rate limited")

	// ErrConfiguration indicates that required configuration is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrMalformedResponse indicates that an upstream response could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrServiceUnavailable indicates that an external service is unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a not found entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RateLimitError provides details about a rate limit error.
// RetryAfter is an estimate of how long the caller has to wait before
// the endpoint has quota again.
type RateLimitError struct {
	Source     string
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by %s: retry after %s", e.Source, e.RetryAfter)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// ConfigurationError reports a missing or unusable configuration value.
type ConfigurationError struct {
	Key     string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// MalformedResponseError reports an upstream payload that could not be decoded.
type MalformedResponseError struct {
	Source string
	Cause  error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("malformed response from %s", e.Source)
	}
	return fmt.Sprintf("malformed response from %s: %v", e.Source, e.Cause)
}

// Is reports whether target is ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// Unwrap returns the decode error.
func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// ExternalAPIError provides details about an external API error.
type ExternalAPIError struct {
	Source     string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Source, e.StatusCode, e.Message)
}

// Is reports whether target is ErrServiceUnavailable. Transport failures
// (no status code) and 5xx responses count as unavailable.
func (e *ExternalAPIError) Is(target error) bool {
	return target == ErrServiceUnavailable && (e.StatusCode == 0 || e.StatusCode >= 500)
}

// Unwrap returns the underlying cause error.
func (e *ExternalAPIError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewRateLimitError creates a new RateLimitError.
func NewRateLimitError(source string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{
		Source:     source,
		RetryAfter: retryAfter,
	}
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(key, message string) *ConfigurationError {
	return &ConfigurationError{
		Key:     key,
		Message: message,
	}
}

// NewMalformedResponseError creates a new MalformedResponseError.
func NewMalformedResponseError(source string, cause error) *MalformedResponseError {
	return &MalformedResponseError{
		Source: source,
		Cause:  cause,
	}
}

// NewExternalAPIError creates a new ExternalAPIError.
func NewExternalAPIError(source string, statusCode int, message string, cause error) *ExternalAPIError {
	return &ExternalAPIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}
