package scanning

import (
	"errors"
	"fmt"
)

// Sentinel errors the HTTP layer maps to status codes
var (
	ErrNotConfigured = errors.New("no scanning provider is configured")
	ErrNoResult      = errors.New("no passport data found")
	ErrTimeout       = errors.New("scanning timed out")
)

// ErrorCategory classifies a provider failure
type ErrorCategory string

const (
	// ErrorNoResult indicates the provider ran but found nothing usable
	ErrorNoResult ErrorCategory = "no_result"

	// ErrorAuthentication indicates rejected credentials
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorPaymentRequired indicates a lapsed provider subscription
	ErrorPaymentRequired ErrorCategory = "payment_required"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorJobFailed indicates the provider reported its job as failed
	ErrorJobFailed ErrorCategory = "job_failed"

	// ErrorBadData indicates the provider returned a malformed payload
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorTimeout indicates the provider did not finish in time
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorProviderOutage indicates the provider could not be reached
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorInternal indicates an unexpected failure
	ErrorInternal ErrorCategory = "internal"
)

// noResult reports whether the category should be treated as "no result"
func (c ErrorCategory) noResult() bool {
	switch c {
	case ErrorNoResult, ErrorAuthentication, ErrorPaymentRequired, ErrorRateLimited, ErrorJobFailed, ErrorBadData:
		return true
	}
	return false
}

// ProviderError wraps a provider failure with its category
type ProviderError struct {
	Provider   string
	Category   ErrorCategory
	Message    string
	Underlying error
}

// NewProviderError creates a new categorized provider error
func NewProviderError(category ErrorCategory, provider, message string, underlying error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Category:   category,
		Message:    message,
		Underlying: underlying,
	}
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.Provider, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.Provider, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// Is matches the category against ErrNoResult and ErrTimeout
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrNoResult:
		return e.Category.noResult()
	case ErrTimeout:
		return e.Category == ErrorTimeout
	}
	return false
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}

func noResult(provider, message string, underlying error) *ProviderError {
	return NewProviderError(ErrorNoResult, provider, message, underlying)
}
