// Package util contains small helpers shared by the router packages that do
// not belong to any single domain concern.
package util

import "regexp"

var apiKeyPattern = regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*\S+`)

const maxLoggedPrompt = 2000

// SanitizeForLog redacts api-key shaped material and caps the length so full
// prompts can be logged at debug level without leaking credentials or
// flooding the log.
func SanitizeForLog(s string) string {
	redacted := apiKeyPattern.ReplaceAllString(s, "<REDACTED_KEY>")
	if len(redacted) > maxLoggedPrompt {
		redacted = redacted[:maxLoggedPrompt] + "...[truncated]"
	}
	return redacted
}

// Preview shortens a string to n characters for log lines, appending an
// ellipsis when cut.
func Preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
