package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown strips conversational filler and outer markdown code blocks
// so the remainder is plain Markdown (or raw JSON) ready for parsing.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	for _, prefix := range []string{"```json", "```markdown", "```"} {
		if strings.HasPrefix(cleaned, prefix) && strings.HasSuffix(cleaned, "```") {
			cleaned = strings.TrimPrefix(cleaned, prefix)
			cleaned = strings.TrimSuffix(cleaned, "```")
			cleaned = strings.TrimSpace(cleaned)
			break
		}
	}

	return cleaned
}

// FencedBlock returns the contents of the first fenced code block with the
// given language tag ("" matches any fence), or "" when none exists.
func FencedBlock(input, lang string) string {
	marker := "```" + lang
	start := strings.Index(input, marker)
	if start == -1 {
		return ""
	}
	rest := input[start+len(marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && lang == "" {
		// Skip a possible language tag on the opening fence.
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// ValidateMarkdown checks that the string parses as Markdown via Goldmark.
// Goldmark is very permissive, so this only rejects pathological input.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	doc := parser.Parse(reader)
	return doc != nil
}
