// gateway.go - Single entry point in front of the configured provider

package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/gradelens/marksheet_ocr_gemini/internal/common"
	"github.com/gradelens/marksheet_ocr_gemini/internal/ratelimit"
)

// Gateway wraps the selected provider with rate limiting and a bounded
// quota retry. Backend-specific errors never escape: every failure is
// wrapped into one "failed to extract data" error for callers.
type Gateway struct {
	provider Provider
	limiter  *ratelimit.IntervalLimiter
	retry    RetryConfig
}

// NewGateway creates a gateway around the provider using the process-wide
// rate limiter and the default retry policy
func NewGateway(provider Provider) *Gateway {
	return NewGatewayWithConfig(provider, ratelimit.Default(), DefaultRetryConfig)
}

// NewGatewayWithConfig creates a gateway with an explicit limiter and
// retry policy
func NewGatewayWithConfig(provider Provider, limiter *ratelimit.IntervalLimiter, retry RetryConfig) *Gateway {
	return &Gateway{
		provider: provider,
		limiter:  limiter,
		retry:    retry,
	}
}

// ProviderName returns the name of the wrapped provider
func (g *Gateway) ProviderName() string {
	return g.provider.GetProviderName()
}

// ExtractFromImage runs one provider call behind the shared rate limiter.
// Quota errors get at most MaxQuotaRetries extra attempts, each after a
// fixed backoff; every attempt waits for the rate limiter again.
func (g *Gateway) ExtractFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, reqCtx *common.RequestContext) (*ModelResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= g.retry.MaxQuotaRetries; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to extract data: %w", err)
		}

		resp, err := g.provider.ExtractFromImage(ctx, imageData, mimeType, prompt, reqCtx)
		if err == nil {
			if attempt > 0 {
				reqCtx.LogInfo("✅ Quota retry succeeded on attempt %d", attempt+1)
			}
			return resp, nil
		}

		lastErr = err

		if !IsQuotaError(err) || attempt >= g.retry.MaxQuotaRetries {
			break
		}

		reqCtx.LogWarning("Rate limited, waiting %v before retry (%d/%d)",
			g.retry.QuotaBackoff, attempt+1, g.retry.MaxQuotaRetries)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to extract data: %w", ctx.Err())
		case <-time.After(g.retry.QuotaBackoff):
		}
	}

	provErr := CategorizeProviderError(lastErr)
	reqCtx.LogError("LLM extraction failed: %s", provErr.Error())
	return nil, fmt.Errorf("failed to extract data: %w", lastErr)
}
