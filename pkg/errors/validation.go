package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds identifiers accepted from the command line.
const maxIDLength = 256

// ValidateID validates a project, graph, node or dataset identifier supplied
// by a user.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No whitespace (IDs are embedded in node keys and connection strings)
//   - No slashes (the connection syntax uses "/" as a separator)
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "ID cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "ID too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "ID contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "ID cannot contain whitespace: %q", id)
		}
	}

	if strings.ContainsAny(id, "/[]") {
		return New(ErrCodeInvalidID, "ID contains reserved characters: %q", id)
	}

	return nil
}

// ValidatePath validates a document file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
