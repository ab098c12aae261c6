// openai.go - OpenAI chat-completions provider

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gradelens/marksheet_ocr_gemini/internal/common"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider implements Provider using the OpenAI chat completions API
type OpenAIProvider struct {
	apiKey    string
	modelName string
	client    *http.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey, modelName string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:    apiKey,
		modelName: modelName,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GetProviderName returns "openai"
func (o *OpenAIProvider) GetProviderName() string {
	return "openai"
}

// Chat completions request/response structures
type chatContentPart struct {
	Type     string        `json:"type"`                // "text" or "image_url"
	Text     string        `json:"text,omitempty"`      // for type="text"
	ImageURL *chatImageURL `json:"image_url,omitempty"` // for type="image_url"
}

type chatImageURL struct {
	URL string `json:"url"` // base64 data URL
}

type chatMessage struct {
	Role    string            `json:"role"`
	Content []chatContentPart `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ExtractFromImage sends the image to the OpenAI chat completions API
func (o *OpenAIProvider) ExtractFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, reqCtx *common.RequestContext) (*ModelResponse, error) {
	reqCtx.LogInfo("🟢 Using OpenAI provider (model: %s)", o.modelName)

	request := buildChatRequest(o.modelName, prompt+GetSubjectEmphasisPrompt(), imageData, mimeType)

	response, err := callChatCompletions(ctx, o.client, openAIEndpoint, o.apiKey, nil, request)
	if err != nil {
		return nil, fmt.Errorf("openai API call failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from OpenAI API")
	}

	reqCtx.TotalTokens.InputTokens += response.Usage.PromptTokens
	reqCtx.TotalTokens.OutputTokens += response.Usage.CompletionTokens
	reqCtx.TotalTokens.TotalTokens += response.Usage.TotalTokens

	return &ModelResponse{
		Content:  response.Choices[0].Message.Content,
		Provider: "openai",
		Model:    o.modelName,
	}, nil
}

// buildChatRequest assembles the multimodal user message with the image
// embedded as a base64 data URL
func buildChatRequest(model, prompt string, imageData []byte, mimeType string) chatCompletionRequest {
	base64Image := base64.StdEncoding.EncodeToString(imageData)
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64Image)

	return chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []chatContentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &chatImageURL{URL: dataURL}},
				},
			},
		},
		MaxTokens:   3000,
		Temperature: 0.05,
	}
}

// callChatCompletions makes one HTTP request to a chat-completions endpoint
func callChatCompletions(ctx context.Context, client *http.Client, endpoint, apiKey string, extraHeaders map[string]string, request chatCompletionRequest) (*chatCompletionResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp chatErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, fmt.Errorf("chat completions API error (%d): %s", resp.StatusCode, errorResp.Error.Message)
		}
		return nil, fmt.Errorf("chat completions API error (%d): %s", resp.StatusCode, string(body))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse chat completions response: %w", err)
	}

	return &response, nil
}
