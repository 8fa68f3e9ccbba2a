package errors

import (
	"strings"
	"unicode"
)

// maxPathLength bounds configured relative paths.
const maxPathLength = 500

// ValidateRelPath validates a path that is joined onto the configured base
// directory (input file names, shapefile directory, output file name).
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No parent directory segments (..)
func ValidateRelPath(field, path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "%s cannot be empty", field)
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "%s too long (max %d characters)", field, maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "%s contains invalid characters", field)
		}
	}

	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return New(ErrCodeInvalidPath, "%s must be relative to the base directory", field)
	}

	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "%s cannot contain parent directory segments (..)", field)
		}
	}

	return nil
}

// ValidateColumnName checks that a configured column name is usable as a
// CSV header key.
func ValidateColumnName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidConfig, "%s cannot be empty", field)
	}
	if strings.ContainsAny(name, "\r\n\x00") {
		return New(ErrCodeInvalidConfig, "%s contains line breaks or null bytes", field)
	}
	return nil
}
