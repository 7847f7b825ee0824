package matching

import (
	"encoding/json"
	"strings"
)

// normalizeStrict parses a completion produced under an enforced structured
// output mode. Malformed output is never an error: it is wrapped so
// downstream rendering always has a value.
func normalizeStrict(content string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &obj); err != nil {
		return map[string]any{
			"parsing_error": true,
			"raw_content":   content,
		}
	}
	return obj
}

// normalizeTolerant parses a completion without enforced structure via the
// repair cascade, falling back to keyword excerpts when nothing could be
// salvaged.
func normalizeTolerant(content, locale string) map[string]any {
	obj, err := tolerantParse(content)
	if err == nil {
		return obj
	}
	return map[string]any{
		"parsing_error": true,
		"raw_content":   content,
		"error":         err.Error(),
		"excerpts":      sectionExcerpts(content, locale),
	}
}
