// gemini.go - Gemini provider with flash-primary / pro-fallback strategy

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/gradelens/marksheet_ocr_gemini/internal/common"
	"google.golang.org/api/option"
)

// Flash responses shorter than this are treated as failed and retried on
// the pro model. A real marksheet extraction is always far longer.
const geminiMinResponseChars = 50

// GeminiProvider implements Provider using the Gemini API.
// Flash is tried first (higher quota, cheaper); Pro is the fallback when
// Flash is safety-blocked or returns a uselessly short response.
type GeminiProvider struct {
	apiKey       string
	modelName    string
	proModelName string
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(apiKey, modelName, proModelName string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:       apiKey,
		modelName:    modelName,
		proModelName: proModelName,
	}
}

// GetProviderName returns "gemini"
func (g *GeminiProvider) GetProviderName() string {
	return "gemini"
}

// ExtractFromImage sends the image to Gemini Flash, falling back to Pro
func (g *GeminiProvider) ExtractFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, reqCtx *common.RequestContext) (*ModelResponse, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	enhancedPrompt := prompt + GetSubjectEmphasisPrompt()

	// Try Flash model first (higher quota)
	content, err := g.generate(ctx, client, g.modelName, 0.05, geminiMinResponseChars, enhancedPrompt, imageData, mimeType, reqCtx)
	if err == nil {
		return &ModelResponse{
			Content:  content,
			Provider: "gemini",
			Model:    g.modelName,
		}, nil
	}

	reqCtx.LogWarning("Gemini Flash failed, trying Pro model: %v", err)

	// Pro fallback runs slightly warmer and only has to return some
	// text; there is no model left to retry a short answer on
	content, proErr := g.generate(ctx, client, g.proModelName, 0.1, 1, enhancedPrompt, imageData, mimeType, reqCtx)
	if proErr != nil {
		return nil, fmt.Errorf("gemini API error: %w", proErr)
	}

	return &ModelResponse{
		Content:  content,
		Provider: "gemini",
		Model:    g.proModelName,
	}, nil
}

// generate runs one model call and returns the concatenated text parts.
// Responses shorter than minChars count as failures.
func (g *GeminiProvider) generate(ctx context.Context, client *genai.Client, modelName string, temperature float32, minChars int, prompt string, imageData []byte, mimeType string, reqCtx *common.RequestContext) (string, error) {
	model := client.GenerativeModel(modelName)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     ptrFloat32(temperature),
		MaxOutputTokens: ptrInt32(3000),
		CandidateCount:  ptrInt32(1),
	}

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{
			MIMEType: mimeType,
			Data:     imageData,
		},
	)
	if err != nil {
		return "", err
	}

	if resp.UsageMetadata != nil {
		reqCtx.TotalTokens.InputTokens += int(resp.UsageMetadata.PromptTokenCount)
		reqCtx.TotalTokens.OutputTokens += int(resp.UsageMetadata.CandidatesTokenCount)
		reqCtx.TotalTokens.TotalTokens += int(resp.UsageMetadata.TotalTokenCount)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil {
			return "", fmt.Errorf("no candidates returned (block reason: %v)", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no candidates returned from %s", modelName)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("content was blocked by safety filters")
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content parts returned from %s (finish reason: %v)", modelName, candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	content := sb.String()
	if err := checkResponseLength(content, modelName, minChars); err != nil {
		return "", err
	}

	return content, nil
}

func checkResponseLength(content, modelName string, minChars int) error {
	if len(strings.TrimSpace(content)) < minChars {
		return fmt.Errorf("response too short or empty from %s", modelName)
	}
	return nil
}

func ptrInt32(i int32) *int32 {
	return &i
}

func ptrFloat32(f float32) *float32 {
	return &f
}
