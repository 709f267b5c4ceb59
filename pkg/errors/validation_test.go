package errors

import (
	"strings"
	"testing"
)

func TestValidateDocumentSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"small document", 42, false},
		{"exactly at limit", MaxDocumentBytes, false},
		{"one over limit", MaxDocumentBytes + 1, true},
		{"empty", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentSize(tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"empty clears search", "", false},
		{"simple path", "$.user.name", false},
		{"value text", "John Doe", false},
		{"tab allowed", "a\tb", false},
		{"bracket path", "items[0].name", false},
		{"newline rejected", "a\nb", true},
		{"escape rejected", "a\x1bb", true},
		{"too long", strings.Repeat("x", MaxQueryLength+1), true},
		{"invalid utf8", string([]byte{0xff, 0xfe}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputBase(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wantErr bool
	}{
		{"simple name", "diagram", false},
		{"with directory", "out/diagram", false},
		{"absolute path", "/tmp/diagram", false},
		{"empty", "", true},
		{"traversal", "../../etc/passwd", true},
		{"null byte", "out\x00name", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputBase(tt.base)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputBase(%q) error = %v, wantErr %v", tt.base, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidJSON,
		ErrCodeInvalidQuery,
		ErrCodeInvalidFormat,
		ErrCodeInvalidTheme,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeDocumentNotFound,
		ErrCodeFileNotFound,
		ErrCodeCache,
		ErrCodeRender,
		ErrCodeServer,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
