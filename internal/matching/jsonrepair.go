package matching

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// The grounded-research provider does not guarantee structured output, so
// parsing is deliberately tolerant: an ordered list of repair passes, then a
// regex salvage pass, before giving up. Each pass is pure and independently
// testable.

var errUnparseable = errors.New("no parseable json object")

// tolerantParse turns a raw completion into a JSON object, applying the
// repair cascade when a direct parse fails.
func tolerantParse(raw string) (map[string]any, error) {
	if obj, ok := tryParse(raw); ok {
		return obj, nil
	}

	candidate := stripCodeFences(raw)
	candidate = extractBraceBlock(candidate)
	if obj, ok := tryParse(candidate); ok {
		return obj, nil
	}

	repaired := quoteBareKeys(normalizeQuotes(candidate))
	repaired = removeTrailingCommas(repaired)
	if obj, ok := tryParse(repaired); ok {
		return obj, nil
	}

	// Second round: strip trailing garbage, collapse duplicate commas.
	second := collapseCommas(stripAfterLastBrace(repaired))
	second = removeTrailingCommas(second)
	if obj, ok := tryParse(second); ok {
		return obj, nil
	}

	if obj := salvagePairs(candidate); len(obj) > 0 {
		return obj, nil
	}
	return nil, errUnparseable
}

func tryParse(candidate string) (map[string]any, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || candidate[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// stripCodeFences unwraps a markdown code block if one is present.
func stripCodeFences(raw string) string {
	if match := codeFencePattern.FindStringSubmatch(raw); match != nil {
		return match[1]
	}
	return strings.ReplaceAll(raw, "```", "")
}

// extractBraceBlock returns the first top-level {...} block, tolerating
// surrounding prose. Falls back to everything from the first brace when the
// block never closes.
func extractBraceBlock(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return raw
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return raw[start:]
}

var (
	singleQuotedKeyPattern   = regexp.MustCompile(`'([^']*)'(\s*:)`)
	singleQuotedValuePattern = regexp.MustCompile(`(:\s*)'([^']*)'`)
)

// normalizeQuotes converts single-quoted keys and values to double quotes.
func normalizeQuotes(raw string) string {
	out := singleQuotedKeyPattern.ReplaceAllString(raw, `"$1"$2`)
	return singleQuotedValuePattern.ReplaceAllString(out, `$1"$2"`)
}

var bareKeyPattern = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)

// quoteBareKeys wraps unquoted object keys in double quotes.
func quoteBareKeys(raw string) string {
	return bareKeyPattern.ReplaceAllString(raw, `$1"$2"$3`)
}

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

func removeTrailingCommas(raw string) string {
	return trailingCommaPattern.ReplaceAllString(raw, `$1`)
}

var duplicateCommaPattern = regexp.MustCompile(`,(\s*,)+`)

func collapseCommas(raw string) string {
	return duplicateCommaPattern.ReplaceAllString(raw, ",")
}

func stripAfterLastBrace(raw string) string {
	if idx := strings.LastIndexByte(raw, '}'); idx >= 0 {
		return raw[:idx+1]
	}
	return raw
}

var (
	stringPairPattern = regexp.MustCompile(`"([^"]+)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	scalarPairPattern = regexp.MustCompile(`"([^"]+)"\s*:\s*(-?\d+(?:\.\d+)?|true|false)`)
)

// salvagePairs extracts flat key/value pairs by regex to recover a partial
// object from otherwise unparseable text.
func salvagePairs(raw string) map[string]any {
	out := make(map[string]any)
	for _, match := range stringPairPattern.FindAllStringSubmatch(raw, -1) {
		value := strings.ReplaceAll(match[2], `\"`, `"`)
		out[match[1]] = value
	}
	for _, match := range scalarPairPattern.FindAllStringSubmatch(raw, -1) {
		if _, exists := out[match[1]]; exists {
			continue
		}
		switch match[2] {
		case "true":
			out[match[1]] = true
		case "false":
			out[match[1]] = false
		default:
			if num, err := strconv.ParseFloat(match[2], 64); err == nil {
				out[match[1]] = num
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
