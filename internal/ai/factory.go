// factory.go - Provider factory for creating LLM provider instances

package ai

import (
	"fmt"
	"log"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
)

// ConfigurationError indicates an unusable provider configuration.
// It is fatal at startup: no request is served without a working provider.
type ConfigurationError struct {
	Provider string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider configuration error (%s): %s", e.Provider, e.Message)
}

// CreateProvider creates an LLM provider based on configuration
func CreateProvider() (Provider, error) {
	provider := configs.LLM_PROVIDER

	switch provider {
	case "gemini":
		if configs.GEMINI_API_KEY == "" {
			return nil, &ConfigurationError{Provider: "gemini", Message: "Gemini API key not configured"}
		}
		log.Printf("🔵 Creating Gemini provider (primary: %s, fallback: %s)",
			configs.GEMINI_MODEL_NAME, configs.GEMINI_PRO_MODEL_NAME)
		return NewGeminiProvider(configs.GEMINI_API_KEY, configs.GEMINI_MODEL_NAME, configs.GEMINI_PRO_MODEL_NAME), nil

	case "openai":
		if configs.OPENAI_API_KEY == "" {
			return nil, &ConfigurationError{Provider: "openai", Message: "OpenAI API key not configured"}
		}
		log.Printf("🟢 Creating OpenAI provider (model: %s)", configs.OPENAI_MODEL_NAME)
		return NewOpenAIProvider(configs.OPENAI_API_KEY, configs.OPENAI_MODEL_NAME), nil

	case "openrouter":
		if configs.OPENROUTER_API_KEY == "" {
			return nil, &ConfigurationError{Provider: "openrouter", Message: "OpenRouter API key not configured"}
		}
		log.Printf("🟣 Creating OpenRouter provider (%d candidate models)", len(configs.OPENROUTER_MODELS))
		return NewOpenRouterProvider(configs.OPENROUTER_API_KEY, configs.OPENROUTER_MODELS), nil

	default:
		return nil, &ConfigurationError{
			Provider: provider,
			Message:  "unsupported provider (supported: gemini, openai, openrouter)",
		}
	}
}
