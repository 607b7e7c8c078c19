package errors

import (
	"strings"
	"unicode"
)

// Year bounds accepted by the graph endpoint. Discoveries without a year are
// treated as year 0 for the lower bound and MaxYear for the upper bound.
const (
	MinYear = 0
	MaxYear = 3000
)

// ValidateTopicName validates a topic key received from a client.
// It rejects names that could be used for path traversal or injection.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences
//   - Maximum length of 256 characters
func ValidateTopicName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidTopic, "topic name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidTopic, "topic name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTopic, "topic name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "\x00", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidTopic, "topic name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateYearRange checks that minYear and maxYear lie within the accepted
// bounds. An inverted range is valid and simply matches nothing.
func ValidateYearRange(minYear, maxYear int) error {
	if minYear < MinYear {
		return New(ErrCodeInvalidInput, "min_year must be >= %d, got %d", MinYear, minYear)
	}
	if maxYear > MaxYear {
		return New(ErrCodeInvalidInput, "max_year must be <= %d, got %d", MaxYear, maxYear)
	}
	return nil
}
