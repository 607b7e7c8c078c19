package errors

import (
	"strings"
	"testing"
)

func TestValidateTopicName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Physics", false},
		{"with spaces", "Earth Science", false},
		{"unicode", "Théorie des nombres", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"control char", "Phys\x07ics", true},
		{"traversal", "../etc", true},
		{"backslash", `a\b`, true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTopicName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTopicName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTopic) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidTopic)
			}
		})
	}
}

func TestValidateYearRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		wantErr  bool
	}{
		{"defaults", MinYear, MaxYear, false},
		{"narrow", 1900, 2000, false},
		{"inverted is allowed", 2000, 1900, false},
		{"negative min", -1, 2000, true},
		{"max too large", 0, 3001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateYearRange(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateYearRange(%d, %d) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}
