package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds type, entity and attribute names.
const maxNameLength = 256

// ValidateID validates a type or entity identifier taken from a URL or a
// request body. Identifiers end up in URL paths and cache keys, so they must
// not contain separators, whitespace or control characters.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidID, "id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "id contains invalid characters")
		}
	}
	for _, pattern := range []string{"/", "\\", "..", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "id contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateName validates a human-readable name of a type, an entity or an
// attribute. what is used in the message ("type name", "attribute name").
func ValidateName(what, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "%s cannot be empty", what)
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "%s too long (max %d characters)", what, maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "%s contains invalid control characters", what)
		}
	}
	return nil
}

// ValidateFormats checks every requested output format against the allowed set.
func ValidateFormats(formats []string, allowed map[string]bool) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one format is required")
	}
	for _, f := range formats {
		if !allowed[f] {
			return New(ErrCodeInvalidFormat, "invalid format: %q", f)
		}
	}
	return nil
}
