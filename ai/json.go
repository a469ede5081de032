package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedPayloadPattern = regexp.MustCompile("(?is)^```(?:json)?\\s*(.*?)\\s*```$")

// StripMarkdownFences removes a wrapping ```json fence if the model
// ignored the no-fences instruction.
func StripMarkdownFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if match := fencedPayloadPattern.FindStringSubmatch(trimmed); match != nil {
		return strings.TrimSpace(match[1])
	}
	return trimmed
}

// invalidJSONError marks a body that failed to parse after fence
// stripping. The client retries these once with a larger token budget,
// since truncation is the usual cause.
type invalidJSONError struct {
	snippet string
	cause   error
}

func (e *invalidJSONError) Error() string {
	return fmt.Sprintf("model response is not valid JSON. Snippet: %s", e.snippet)
}

func (e *invalidJSONError) Unwrap() error {
	return e.cause
}

// parseModelJSON parses a model text body into a generic JSON value.
func parseModelJSON(text string) (interface{}, error) {
	normalized := StripMarkdownFences(text)

	var parsed interface{}
	if err := json.Unmarshal([]byte(normalized), &parsed); err != nil {
		snippet := normalized
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &invalidJSONError{snippet: snippet, cause: err}
	}
	return parsed, nil
}
