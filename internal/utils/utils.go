package utils

import (
	"fmt"
	"strings"
)

// SanitizeSlug converts a hyphen-separated project slug into the
// underscore form used for metric scope IDs and dimension values.
func SanitizeSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", "_")
}

// ValidateSlug checks that a project slug is usable as a metric scope.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}

	if strings.ContainsAny(slug, " /\\:*?\"<>|") {
		return fmt.Errorf("slug contains invalid characters: %s", slug)
	}

	return nil
}
