package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Notes", "Notes"},
		{"markup stripped", "<b>Notes</b><script>alert(1)</script>", "Notes"},
		{"whitespace collapsed", "  My \n\t Notes  ", "My Notes"},
		{"entities kept readable", "Tom & Jerry", "Tom & Jerry"},
		{"only markup", "<img src=x onerror=alert(1)>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTitle(tt.input))
		})
	}

	long := SanitizeTitle(strings.Repeat("é", MaxTitleLength+10))
	assert.Equal(t, MaxTitleLength, len([]rune(long)))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("win_01HZX3ABCDEF", "id", true))
	assert.NoError(t, ValidateID("", "id", false))
	assert.Error(t, ValidateID("", "id", true))
	assert.Error(t, ValidateID("../etc", "id", true))
	assert.Error(t, ValidateID(strings.Repeat("a", MaxIDLength+1), "id", true))
}

func TestValidateAppName(t *testing.T) {
	for _, ok := range []string{"Notes", "calculator", "My App 2", "café"} {
		assert.NoError(t, ValidateAppName(ok), ok)
	}
	for _, bad := range []string{"", "a/b", "x\x00", "<script>", strings.Repeat("n", MaxAppNameLength+1)} {
		assert.Error(t, ValidateAppName(bad), bad)
	}
}

func TestValidateMetadata(t *testing.T) {
	assert.NoError(t, ValidateMetadata(nil))
	assert.NoError(t, ValidateMetadata(map[string]any{"source": "start-menu", "args": []any{"a", 1}}))

	assert.Error(t, ValidateMetadata(map[string]any{"blob": strings.Repeat("x", MaxMetadataSize)}))

	var nested any = "leaf"
	for range MaxMetadataDepth + 2 {
		nested = map[string]any{"n": nested}
	}
	assert.Error(t, ValidateMetadata(nested.(map[string]any)))
}
