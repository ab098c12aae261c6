// openrouter.go - OpenRouter provider with ordered model fallback

package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
	"github.com/gradelens/marksheet_ocr_gemini/internal/common"
)

const openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// Responses shorter than this are not a usable extraction; the next
// candidate model is tried instead.
const openRouterMinResponseChars = 100

// OpenRouterProvider implements Provider using the OpenRouter API.
// Candidate models are tried in order; the first meaningful response
// wins and the last error is surfaced when all models fail.
type OpenRouterProvider struct {
	apiKey string
	models []string
	client *http.Client
}

// NewOpenRouterProvider creates a new OpenRouter provider
func NewOpenRouterProvider(apiKey string, models []string) *OpenRouterProvider {
	return &OpenRouterProvider{
		apiKey: apiKey,
		models: models,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GetProviderName returns "openrouter"
func (o *OpenRouterProvider) GetProviderName() string {
	return "openrouter"
}

// ExtractFromImage tries each configured model in order
func (o *OpenRouterProvider) ExtractFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, reqCtx *common.RequestContext) (*ModelResponse, error) {
	reqCtx.LogInfo("🟣 Using OpenRouter provider (%d candidate models)", len(o.models))

	extraHeaders := map[string]string{
		"HTTP-Referer": configs.OPENROUTER_SITE_URL,
		"X-Title":      configs.OPENROUTER_APP_TITLE,
	}

	enhancedPrompt := prompt + GetSubjectEmphasisPrompt()

	var lastErr error
	for _, model := range o.models {
		request := buildChatRequest(model, enhancedPrompt, imageData, mimeType)

		response, err := callChatCompletions(ctx, o.client, openRouterEndpoint, o.apiKey, extraHeaders, request)
		if err != nil {
			reqCtx.LogWarning("OpenRouter model %s failed: %v", model, err)
			lastErr = err
			continue
		}

		if len(response.Choices) == 0 {
			lastErr = fmt.Errorf("no choices returned from model %s", model)
			reqCtx.LogWarning("OpenRouter model %s failed: %v", model, lastErr)
			continue
		}

		content := response.Choices[0].Message.Content
		if len(strings.TrimSpace(content)) <= openRouterMinResponseChars {
			lastErr = fmt.Errorf("response too short from %s", model)
			reqCtx.LogWarning("OpenRouter model %s failed: %v", model, lastErr)
			continue
		}

		reqCtx.TotalTokens.InputTokens += response.Usage.PromptTokens
		reqCtx.TotalTokens.OutputTokens += response.Usage.CompletionTokens
		reqCtx.TotalTokens.TotalTokens += response.Usage.TotalTokens

		return &ModelResponse{
			Content:  content,
			Provider: "openrouter",
			Model:    model,
		}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no OpenRouter models configured")
	}
	return nil, fmt.Errorf("all OpenRouter models failed: %w", lastErr)
}
