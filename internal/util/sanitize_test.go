package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog_RedactsAPIKeys(t *testing.T) {
	cases := map[string]string{
		"api_key=sk-12345 rest":      "<REDACTED_KEY> rest",
		"API-KEY: secret rest":       "<REDACTED_KEY> rest",
		"apikey = abc rest":          "<REDACTED_KEY> rest",
		"plain text without secrets": "plain text without secrets",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeForLog(in))
	}
}

func TestSanitizeForLog_CapsLength(t *testing.T) {
	long := strings.Repeat("x", 5000)

	out := SanitizeForLog(long)

	assert.True(t, strings.HasSuffix(out, "...[truncated]"))
	assert.Len(t, out, 2000+len("...[truncated]"))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 10))
	assert.Equal(t, "abc...", Preview("abcdef", 3))
}
