package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		name     string
		slug     string
		expected string
	}{
		{
			name:     "single hyphen",
			slug:     "project-one",
			expected: "project_one",
		},
		{
			name:     "multiple hyphens",
			slug:     "my-big-project",
			expected: "my_big_project",
		},
		{
			name:     "no hyphens",
			slug:     "project",
			expected: "project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeSlug(tt.slug))
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name        string
		slug        string
		expectError bool
	}{
		{
			name:        "valid slug",
			slug:        "project-one",
			expectError: false,
		},
		{
			name:        "empty slug",
			slug:        "",
			expectError: true,
		},
		{
			name:        "slug with spaces",
			slug:        "project one",
			expectError: true,
		},
		{
			name:        "slug with path separator",
			slug:        "project/one",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
