package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckResponseLengthFlashMinimum(t *testing.T) {
	short := `{"error": "unreadable"}`
	require.Less(t, len(short), geminiMinResponseChars)

	err := checkResponseLength(short, "gemini-1.5-flash", geminiMinResponseChars)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")

	long := strings.Repeat("x", geminiMinResponseChars)
	assert.NoError(t, checkResponseLength(long, "gemini-1.5-flash", geminiMinResponseChars))
}

func TestCheckResponseLengthProFallbackAcceptsShortText(t *testing.T) {
	// The fallback model only has to return some text.
	assert.NoError(t, checkResponseLength(`{"error": "unreadable"}`, "gemini-1.5-pro", 1))
	assert.Error(t, checkResponseLength("   ", "gemini-1.5-pro", 1))
	assert.Error(t, checkResponseLength("", "gemini-1.5-pro", 1))
}
