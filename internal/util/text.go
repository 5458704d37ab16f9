package util

import (
	"encoding/json"
	"strings"
)

func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// ConvertStructToJson marshals v to a JSON string, returning "{}" on failure.
func ConvertStructToJson(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
