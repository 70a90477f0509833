package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON strips the markdown fences models like to wrap JSON in.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)

	// Some replies lead with a sentence before the object.
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		if i := strings.Index(s, "{"); i >= 0 {
			if j := strings.LastIndex(s, "}"); j > i {
				s = s[i : j+1]
			}
		}
	}
	return s
}

// DecodeJSON extracts and unmarshals a JSON reply into v.
func DecodeJSON(text string, v any) error {
	s := ExtractJSON(text)
	if err := json.Unmarshal([]byte(s), v); err != nil {
		preview := s
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return fmt.Errorf("decode model JSON %q: %w", preview, err)
	}
	return nil
}
