package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxDocumentBytes is the largest JSON document the tool accepts.
// Documents are parsed and laid out in memory as a whole, so the limit
// guards the server against accidental multi-hundred-megabyte pastes.
const MaxDocumentBytes = 10 << 20 // 10 MiB

// MaxQueryLength is the longest accepted search query, in bytes.
const MaxQueryLength = 1024

// ValidateDocumentSize validates the byte length of an incoming JSON document.
func ValidateDocumentSize(n int) error {
	if n == 0 {
		return New(ErrCodeInvalidInput, "document cannot be empty")
	}
	if n > MaxDocumentBytes {
		return New(ErrCodeInvalidInput, "document too large: %d bytes (max %d)", n, MaxDocumentBytes)
	}
	return nil
}

// ValidateQuery validates a search query before it reaches the resolver.
// Queries are echoed into logs and responses, so control characters are
// rejected outright. An empty query is valid (it clears the search).
func ValidateQuery(q string) error {
	if len(q) > MaxQueryLength {
		return New(ErrCodeInvalidQuery, "query too long: %d bytes (max %d)", len(q), MaxQueryLength)
	}
	if !utf8.ValidString(q) {
		return New(ErrCodeInvalidQuery, "query is not valid UTF-8")
	}
	for _, r := range q {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidQuery, "query contains control characters")
		}
	}
	return nil
}

// ValidateOutputBase validates the base path used for written artifacts.
// It prevents path traversal out of the caller's chosen directory and
// rejects names that cannot become filenames.
func ValidateOutputBase(base string) error {
	if base == "" {
		return New(ErrCodeInvalidInput, "output base cannot be empty")
	}

	const maxBaseLength = 500
	if len(base) > maxBaseLength {
		return New(ErrCodeInvalidInput, "output base too long (max %d characters)", maxBaseLength)
	}

	for _, r := range base {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output base contains invalid characters")
		}
	}

	if strings.Contains(base, "..") {
		return New(ErrCodeInvalidInput, "output base cannot contain path traversal sequences (..)")
	}

	return nil
}
