// retry.go - Error categorization and quota retry policy for LLM calls

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

// RetryConfig defines the quota retry behavior of the gateway.
// Quota retries are explicitly bounded: MaxQuotaRetries additional
// attempts at most, each after a fixed QuotaBackoff wait.
type RetryConfig struct {
	MaxQuotaRetries int
	QuotaBackoff    time.Duration
}

// DefaultRetryConfig provides sensible defaults for retry behavior
var DefaultRetryConfig = RetryConfig{
	MaxQuotaRetries: 1,
	QuotaBackoff:    60 * time.Second,
}

// ProviderError represents a categorized LLM API error
type ProviderError struct {
	OriginalError error
	Category      string
	StatusCode    int
	Message       string
	Retryable     bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("[%s] %s (status: %d, retryable: %v)", e.Category, e.Message, e.StatusCode, e.Retryable)
}

func (e *ProviderError) Unwrap() error {
	return e.OriginalError
}

// CategorizeProviderError analyzes an error and determines the retry strategy
func CategorizeProviderError(err error) *ProviderError {
	if err == nil {
		return nil
	}

	provErr := &ProviderError{
		OriginalError: err,
		Category:      "unknown",
		Message:       err.Error(),
		Retryable:     false,
	}

	// Check if it's a Google API error
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		provErr.StatusCode = apiErr.Code

		switch apiErr.Code {
		case 400:
			provErr.Category = "bad_request"
			provErr.Message = "Invalid request format or parameters"
			provErr.Retryable = false

		case 401:
			provErr.Category = "unauthorized"
			provErr.Message = "Invalid API key or authentication failed"
			provErr.Retryable = false

		case 403:
			provErr.Category = "forbidden"
			provErr.Message = "API key lacks required permissions"
			provErr.Retryable = false

		case 404:
			provErr.Category = "not_found"
			provErr.Message = "Model not found or invalid endpoint"
			provErr.Retryable = false

		case 413:
			provErr.Category = "payload_too_large"
			provErr.Message = "Request size exceeds limit (reduce image size)"
			provErr.Retryable = false

		case 429:
			provErr.Category = "rate_limit"
			provErr.Message = "Rate limit exceeded - too many requests"
			provErr.Retryable = true

		case 500, 502, 503, 504:
			provErr.Category = "server_error"
			provErr.Message = fmt.Sprintf("LLM server error (%d)", apiErr.Code)
			provErr.Retryable = true

		default:
			provErr.Category = "unknown_api_error"
			provErr.Message = fmt.Sprintf("API error: %s", apiErr.Message)
			provErr.Retryable = apiErr.Code >= 500
		}

		return provErr
	}

	// Check for context errors
	if errors.Is(err, context.DeadlineExceeded) {
		provErr.Category = "timeout"
		provErr.Message = "Request timeout - processing took too long"
		provErr.Retryable = true
		return provErr
	}

	if errors.Is(err, context.Canceled) {
		provErr.Category = "canceled"
		provErr.Message = "Request was canceled"
		provErr.Retryable = false
		return provErr
	}

	// Check error message for common patterns
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "resource exhausted") {
		provErr.Category = "quota_exceeded"
		provErr.Message = "API quota exceeded"
		provErr.Retryable = true
		return provErr
	}

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline") {
		provErr.Category = "timeout"
		provErr.Message = "Request timeout"
		provErr.Retryable = true
		return provErr
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") {
		provErr.Category = "network_error"
		provErr.Message = "Network connection error"
		provErr.Retryable = true
		return provErr
	}

	return provErr
}

// IsQuotaError reports whether the error is a quota or rate-limit failure
// worth a long backoff and a single retry
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "429") ||
		strings.Contains(errMsg, "quota") ||
		strings.Contains(errMsg, "resource exhausted")
}
