package utils

import (
	"fmt"
	"strings"
)

// rawPreviewLimit caps how much of a bad model reply is echoed in errors.
const rawPreviewLimit = 500

// ExtractJSONObject pulls the JSON payload out of a model reply. It prefers
// a ```json fenced block, then falls back to the first balanced {...}
// substring. Returns "" when no candidate object exists.
func ExtractJSONObject(text string) string {
	if block := FencedBlock(text, "json"); block != "" {
		return block
	}
	if block := FencedBlock(text, ""); strings.HasPrefix(strings.TrimSpace(block), "{") {
		return block
	}
	return balancedObject(text)
}

// balancedObject returns the first brace-balanced object substring,
// tracking string literals so braces inside values don't miscount.
func balancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
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
				return text[start : i+1]
			}
		}
	}
	// Unbalanced tail: hand the fragment to the repair chain anyway.
	return text[start:]
}

// DecodeModelJSON extracts and parses the JSON object in a model reply into
// schema. On failure the error carries the raw reply truncated to 500 runes
// so it can be surfaced to the caller without flooding logs.
func DecodeModelJSON(text string, schema interface{}) error {
	candidate := ExtractJSONObject(CleanMarkdown(text))
	if candidate == "" {
		return fmt.Errorf("no JSON object in model reply: %s", TruncateRunes(text, rawPreviewLimit))
	}
	if _, err := SmartParse(candidate, schema); err != nil {
		return fmt.Errorf("model reply is not valid JSON: %s", TruncateRunes(text, rawPreviewLimit))
	}
	return nil
}

// TruncateRunes shortens s to at most limit runes, appending an ellipsis
// marker when anything was cut.
func TruncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
