// config.go - Configuration loaded from environment variables

package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	// LLM Provider Configuration
	LLM_PROVIDER string // "gemini", "openai" or "openrouter"

	// Gemini Configuration
	GEMINI_API_KEY        string
	GEMINI_MODEL_NAME     string // primary model (higher quota)
	GEMINI_PRO_MODEL_NAME string // fallback model

	// OpenAI Configuration
	OPENAI_API_KEY    string
	OPENAI_MODEL_NAME string

	// OpenRouter Configuration
	OPENROUTER_API_KEY   string
	OPENROUTER_MODELS    []string // tried in order, first usable response wins
	OPENROUTER_SITE_URL  string
	OPENROUTER_APP_TITLE string

	// Server Configuration
	PORT            string
	UPLOAD_DIR      string
	ALLOWED_ORIGINS string

	// API Authentication (optional)
	ENABLE_AUTH bool
	API_KEY     string

	// File Upload Settings
	MAX_FILE_SIZE   int64
	MAX_BATCH_FILES int

	// Confidence Settings
	MIN_CONFIDENCE_THRESHOLD float64

	// Rate limiting and quota retry
	REQUEST_INTERVAL_SECONDS int // 15 RPM free tier = 1 request per 4 seconds
	QUOTA_BACKOFF_SECONDS    int
	MAX_QUOTA_RETRIES        int

	// MongoDB Configuration (optional extraction history)
	MONGO_URI     string
	MONGO_DB_NAME string

	// Image preprocessing settings
	ENABLE_IMAGE_PREPROCESSING bool
	MIN_IMAGE_DIMENSION        int
	MAX_IMAGE_DIMENSION        int
)

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	LLM_PROVIDER = strings.ToLower(getEnv("LLM_PROVIDER", "gemini"))

	GEMINI_API_KEY = getEnv("GEMINI_API_KEY", "")
	GEMINI_MODEL_NAME = getEnv("GEMINI_MODEL_NAME", "gemini-1.5-flash")
	GEMINI_PRO_MODEL_NAME = getEnv("GEMINI_PRO_MODEL_NAME", "gemini-1.5-pro")

	OPENAI_API_KEY = getEnv("OPENAI_API_KEY", "")
	OPENAI_MODEL_NAME = getEnv("OPENAI_MODEL_NAME", "gpt-4o")

	OPENROUTER_API_KEY = getEnv("OPENROUTER_API_KEY", "")
	OPENROUTER_MODELS = getEnvList("OPENROUTER_MODELS", []string{
		"google/gemini-2.0-flash-exp",
		"google/gemini-1.5-pro",
		"openai/gpt-4o-mini",
		"anthropic/claude-3-haiku",
	})
	OPENROUTER_SITE_URL = getEnv("OPENROUTER_SITE_URL", "http://localhost:8080")
	OPENROUTER_APP_TITLE = getEnv("OPENROUTER_APP_TITLE", "AI Marksheet Extractor")

	// Required: API key for the selected provider
	switch LLM_PROVIDER {
	case "gemini":
		if GEMINI_API_KEY == "" {
			log.Fatal("GEMINI_API_KEY environment variable is required")
		}
	case "openai":
		if OPENAI_API_KEY == "" {
			log.Fatal("OPENAI_API_KEY environment variable is required")
		}
	case "openrouter":
		if OPENROUTER_API_KEY == "" {
			log.Fatal("OPENROUTER_API_KEY environment variable is required")
		}
	default:
		log.Fatalf("Unsupported LLM_PROVIDER: %s (supported: gemini, openai, openrouter)", LLM_PROVIDER)
	}

	PORT = getEnv("PORT", "8080")
	UPLOAD_DIR = getEnv("UPLOAD_DIR", "temp_uploads")
	ALLOWED_ORIGINS = getEnv("ALLOWED_ORIGINS", "*")

	ENABLE_AUTH = getEnvBool("ENABLE_AUTH", false)
	API_KEY = getEnv("API_KEY", "")
	if ENABLE_AUTH && API_KEY == "" {
		log.Fatal("API_KEY environment variable is required when ENABLE_AUTH is true")
	}

	MAX_FILE_SIZE = int64(getEnvInt("MAX_FILE_SIZE", 10*1024*1024))
	MAX_BATCH_FILES = getEnvInt("MAX_BATCH_FILES", 10)

	MIN_CONFIDENCE_THRESHOLD = getEnvFloat("MIN_CONFIDENCE_THRESHOLD", 0.5)

	REQUEST_INTERVAL_SECONDS = getEnvInt("REQUEST_INTERVAL_SECONDS", 4)
	QUOTA_BACKOFF_SECONDS = getEnvInt("QUOTA_BACKOFF_SECONDS", 60)
	MAX_QUOTA_RETRIES = getEnvInt("MAX_QUOTA_RETRIES", 1)

	// MongoDB history store is optional - disabled when MONGO_URI is empty
	MONGO_URI = getEnv("MONGO_URI", "")
	MONGO_DB_NAME = getEnv("MONGO_DB_NAME", "marksheetdb")

	ENABLE_IMAGE_PREPROCESSING = getEnvBool("ENABLE_IMAGE_PREPROCESSING", true)
	MIN_IMAGE_DIMENSION = getEnvInt("MIN_IMAGE_DIMENSION", 1500)
	MAX_IMAGE_DIMENSION = getEnvInt("MAX_IMAGE_DIMENSION", 2500)

	log.Println("✓ Configuration loaded successfully")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
