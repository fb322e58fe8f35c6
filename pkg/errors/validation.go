package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches case and sample identifiers as they appear in
// LIMS exports, e.g. "ADM1059A1" or "internal_id-2".
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateIdentifier validates a case or sample identifier.
//
// Identifiers end up in file names and SVG element IDs, so the rules are
// strict:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - Letters, digits, dot, dash and underscore only
//   - No path traversal sequences (..)
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidCase, "identifier cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidCase, "identifier too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCase, "identifier contains invalid control characters")
		}
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidCase, "identifier cannot contain path traversal sequences (..)")
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidCase, "invalid identifier: %q", id)
	}

	return nil
}

// ValidatePath validates a relative image path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
