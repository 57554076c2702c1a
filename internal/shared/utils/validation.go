// Package utils validates and cleans request input before it reaches the
// shell components.
package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/microcosm-cc/bluemonday"
)

// Size limits
const (
	MaxJSONSize      = 64 * 1024 // request bodies
	MaxMetadataSize  = 16 * 1024 // window metadata, encoded
	MaxMetadataDepth = 8
	MaxTitleLength   = 128
	MaxIDLength      = 128
	MaxAppNameLength = 64
)

var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// AppNamePattern allows letters, digits, spaces, dots and hyphens
	AppNamePattern = regexp.MustCompile(`^[\p{L}\p{N} ._-]+$`)

	strict = bluemonday.StrictPolicy()
	spaces = regexp.MustCompile(`\s+`)
)

// SanitizeTitle strips markup and collapses whitespace from a window title
// and truncates it to MaxTitleLength runes
func SanitizeTitle(title string) string {
	clean := html.UnescapeString(strict.Sanitize(title))
	clean = strings.TrimSpace(spaces.ReplaceAllString(clean, " "))
	if utf8.RuneCountInString(clean) > MaxTitleLength {
		clean = string([]rune(clean)[:MaxTitleLength])
	}
	return clean
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if value == "" {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}
	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}
	return nil
}

// ValidateAppName validates an app name taken from a URL
func ValidateAppName(name string) error {
	if err := ValidateString(name, "app name", 1, MaxAppNameLength, true); err != nil {
		return err
	}
	if !AppNamePattern.MatchString(name) {
		return fmt.Errorf("app name contains invalid characters")
	}
	return nil
}

// ValidateMetadata bounds the encoded size and nesting of window metadata
func ValidateMetadata(metadata map[string]any) error {
	if len(metadata) == 0 {
		return nil
	}
	data, err := sonic.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if len(data) > MaxMetadataSize {
		return fmt.Errorf("metadata size %d bytes exceeds maximum %d bytes", len(data), MaxMetadataSize)
	}
	return checkDepth(metadata, 0, MaxMetadataDepth)
}

func checkDepth(data any, depth, maxDepth int) error {
	if depth > maxDepth {
		return fmt.Errorf("metadata nesting depth exceeds maximum %d", maxDepth)
	}

	switch v := data.(type) {
	case map[string]any:
		for _, value := range v {
			if err := checkDepth(value, depth+1, maxDepth); err != nil {
				return err
			}
		}
	case []any:
		for _, value := range v {
			if err := checkDepth(value, depth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}
