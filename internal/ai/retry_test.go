package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/api/googleapi"
)

func TestCategorizeProviderErrorNil(t *testing.T) {
	assert.Nil(t, CategorizeProviderError(nil))
}

func TestCategorizeProviderErrorGoogleAPICodes(t *testing.T) {
	cases := []struct {
		code      int
		category  string
		retryable bool
	}{
		{400, "bad_request", false},
		{401, "unauthorized", false},
		{403, "forbidden", false},
		{404, "not_found", false},
		{413, "payload_too_large", false},
		{429, "rate_limit", true},
		{500, "server_error", true},
		{503, "server_error", true},
	}

	for _, tc := range cases {
		err := &googleapi.Error{Code: tc.code, Message: "api failure"}
		provErr := CategorizeProviderError(err)
		require.NotNil(t, provErr)
		assert.Equal(t, tc.category, provErr.Category, "code %d", tc.code)
		assert.Equal(t, tc.retryable, provErr.Retryable, "code %d", tc.code)
		assert.Equal(t, tc.code, provErr.StatusCode)
	}
}

func TestCategorizeProviderErrorWrapped(t *testing.T) {
	err := fmt.Errorf("gemini API error: %w", &googleapi.Error{Code: 429})
	provErr := CategorizeProviderError(err)
	assert.Equal(t, "rate_limit", provErr.Category)
	assert.True(t, provErr.Retryable)
}

func TestCategorizeProviderErrorContext(t *testing.T) {
	provErr := CategorizeProviderError(context.DeadlineExceeded)
	assert.Equal(t, "timeout", provErr.Category)
	assert.True(t, provErr.Retryable)

	provErr = CategorizeProviderError(context.Canceled)
	assert.Equal(t, "canceled", provErr.Category)
	assert.False(t, provErr.Retryable)
}

func TestCategorizeProviderErrorMessagePatterns(t *testing.T) {
	provErr := CategorizeProviderError(errors.New("quota exceeded for model"))
	assert.Equal(t, "quota_exceeded", provErr.Category)
	assert.True(t, provErr.Retryable)

	provErr = CategorizeProviderError(errors.New("connection refused"))
	assert.Equal(t, "network_error", provErr.Category)

	provErr = CategorizeProviderError(errors.New("something odd"))
	assert.Equal(t, "unknown", provErr.Category)
	assert.False(t, provErr.Retryable)
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := &googleapi.Error{Code: 401}
	provErr := CategorizeProviderError(inner)
	assert.ErrorIs(t, provErr, inner)
}

func TestIsQuotaError(t *testing.T) {
	assert.False(t, IsQuotaError(nil))
	assert.True(t, IsQuotaError(&googleapi.Error{Code: 429}))
	assert.False(t, IsQuotaError(&googleapi.Error{Code: 400}))
	assert.True(t, IsQuotaError(errors.New("RESOURCE EXHAUSTED")))
	assert.True(t, IsQuotaError(errors.New("status 429 from upstream")))
	assert.True(t, IsQuotaError(errors.New("daily quota reached")))
	assert.False(t, IsQuotaError(errors.New("bad image")))
}
