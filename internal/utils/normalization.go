package utils

import (
	"regexp"
	"strings"
)

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

func NormalizeMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}

func NormalizeDifficulty(difficulty string) string {
	return strings.ToLower(strings.TrimSpace(difficulty))
}

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ExtractJSON returns the span from the first '{' to the last '}' of an LLM reply.
func ExtractJSON(s string) (string, bool) {
	match := jsonObject.FindString(s)
	return match, match != ""
}
