// interface.go - LLM provider interface for supporting multiple backends

package ai

import (
	"context"

	"github.com/gradelens/marksheet_ocr_gemini/internal/common"
)

// ModelResponse is the normalized output of any provider call
type ModelResponse struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Provider defines the interface that all LLM providers must implement.
// This keeps the provider set sealed: the rest of the service only ever
// talks to this interface, never to a backend SDK directly.
type Provider interface {
	// ExtractFromImage sends the image and prompt to the backend model
	// and returns the raw text response
	ExtractFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, reqCtx *common.RequestContext) (*ModelResponse, error)

	// GetProviderName returns the name of the provider (e.g. "gemini", "openai")
	GetProviderName() string
}
