// Package redact scrubs credentials from strings before they are logged.
// Upstream provider errors may echo request headers or keys back, and
// database errors may carry connection strings.
package redact

import (
	"regexp"
)

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules are applied in order; earlier rules see the raw input.
var rules = []rule{
	{
		// user:password@ in connection URLs
		pattern:     regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mysql|mongodb|redis)://[^@\s/]+@`),
		replacement: "$1://" + RedactedCredentialPlaceholder + "@",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/=]{8,}`),
		replacement: "Bearer " + RedactedTokenPlaceholder,
	},
	{
		// OpenAI-style and xAI secret keys
		pattern:     regexp.MustCompile(`\b(?:sk|xai)-[A-Za-z0-9_\-]{8,}`),
		replacement: RedactedKeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		replacement: RedactedTokenPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(api[_-]?key|password|secret|token)(["']?\s*[:=]\s*["']?)[^"'&\s,}]{4,}`),
		replacement: "$1$2" + RedactedKeyPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}
	out := input
	for _, r := range rules {
		out = r.pattern.ReplaceAllString(out, r.replacement)
	}
	return out
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
