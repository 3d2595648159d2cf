package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidationError aggregates every problem found while validating a batch of
// input, such as the rows of an imported spreadsheet.
type ValidationError struct {
	Messages []string
}

// NewValidationError returns nil when msgs is empty.
func NewValidationError(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}

// Error joins all messages, one per line.
func (e *ValidationError) Error() string {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	return strings.Join(e.Messages, "\n")
}

// Code returns the error code for this error type.
func (e *ValidationError) Code() Code {
	return ErrCodeInvalidFile
}

// ValidateFilename validates a user-supplied output filename.
// It must be a plain basename without path components or control characters.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "filename cannot be %q", name)
	}
	return nil
}

// ValidateKey validates a storage key. Keys become file names in the file
// store, so the same restrictions apply plus a length limit.
func ValidateKey(key string) error {
	if err := ValidateFilename(key); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid storage key %q", key)
	}
	const maxKeyLength = 200
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidInput, "storage key too long (max %d characters)", maxKeyLength)
	}
	return nil
}

// ValidateExtension checks that path ends with one of the allowed extensions
// (compared case-insensitively, with the leading dot).
func ValidateExtension(path string, allowed ...string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file type %q (expected one of: %s)", ext, strings.Join(allowed, ", "))
}
