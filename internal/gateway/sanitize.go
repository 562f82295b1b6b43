package gateway

import (
	"regexp"
	"strconv"
	"strings"

	"workspace_gateway/internal/apierr"
)

var disallowedSheetNameChars = regexp.MustCompile(`[^A-Za-z0-9_\s-]`)

// SanitizeSheetName strips every character outside letters, digits,
// underscore, hyphen and whitespace, then trims surrounding whitespace.
func SanitizeSheetName(name string) (string, error) {
	sanitized := strings.TrimSpace(disallowedSheetNameChars.ReplaceAllString(name, ""))
	if sanitized == "" {
		return "", apierr.Validation("sanitize sheet name", "sheet name %q is empty after sanitization", name)
	}
	return sanitized, nil
}

// ParseRowIndex parses a 1-based row number and enforces a lower bound.
func ParseRowIndex(raw string, min int) (int, error) {
	row, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apierr.Validation("parse row index", "row index %q is not a number", raw)
	}
	if row < min {
		return 0, apierr.Validation("parse row index", "row index %d is invalid (minimum %d)", row, min)
	}
	return row, nil
}
