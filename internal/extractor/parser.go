// parser.go - Response recovery: turns raw LLM text into a JSON object

package extractor

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	namePattern    = regexp.MustCompile(`[Nn]ame[:\s]+([A-Z][A-Z\s]+)`)
	studentPattern = regexp.MustCompile(`Student[:\s]+([A-Z][A-Z\s]+)`)
)

// ParseResponse recovers a JSON object from the model's raw output.
// Recovery layers: direct parse, then the substring between the first
// '{' and the last '}', then the same after stripping markdown code
// fences. If all layers fail a fallback skeleton is built so the
// request still succeeds with whatever could be salvaged.
func ParseResponse(content string) (map[string]interface{}, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyResponse
	}

	if data, ok := tryParseObject(content); ok {
		return data, nil
	}

	if inner, ok := extractBraced(content); ok {
		if data, ok := tryParseObject(inner); ok {
			return data, nil
		}
	}

	cleaned := stripCodeFences(content)
	if data, ok := tryParseObject(cleaned); ok {
		return data, nil
	}
	if inner, ok := extractBraced(cleaned); ok {
		if data, ok := tryParseObject(inner); ok {
			return data, nil
		}
	}

	return buildFallbackData(content), nil
}

func tryParseObject(s string) (map[string]interface{}, bool) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &data); err != nil {
		return nil, false
	}
	return data, true
}

// extractBraced returns the substring from the first '{' to the last '}'.
func extractBraced(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// buildFallbackData produces a minimal skeleton when the output is not
// JSON at all. A candidate name is scraped from the plain text when one
// is recognizable, at reduced confidence.
func buildFallbackData(content string) map[string]interface{} {
	candidate := map[string]interface{}{}

	match := namePattern.FindStringSubmatch(content)
	if match == nil {
		match = studentPattern.FindStringSubmatch(content)
	}
	if match != nil {
		candidate["name"] = map[string]interface{}{
			"value":      strings.TrimSpace(match[1]),
			"confidence": 0.5,
		}
	}

	return map[string]interface{}{
		"candidate_details": candidate,
		"subjects":          []interface{}{},
		"overall_result":    map[string]interface{}{},
		"document_info":     map[string]interface{}{},
		"raw_content":       content,
	}
}
