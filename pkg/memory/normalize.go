package memory

import (
	"regexp"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`[^\w]+`)
var underscoreRuns = regexp.MustCompile(`_+`)

// SanitizeName normalizes an entity or relationship name into the
// snake_case form used as graph identity: lowercased, non-word runs
// replaced by single underscores, no leading or trailing underscores.
func SanitizeName(value string) string {
	out := strings.ToLower(strings.TrimSpace(value))
	out = nonWordPattern.ReplaceAllString(out, "_")
	out = underscoreRuns.ReplaceAllString(out, "_")
	return strings.Trim(out, "_")
}

// displayName renders a sanitized name for humans, with underscores
// turned back into spaces.
func displayName(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}
