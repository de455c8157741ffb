// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies truncate, formatTime, and validation helpers

package commands

import (
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string unchanged",
			input:  "oatmeal",
			maxLen: 10,
			want:   "oatmeal",
		},
		{
			name:   "exact length unchanged",
			input:  "pasta",
			maxLen: 5,
			want:   "pasta",
		},
		{
			name:   "long string truncated",
			input:  "slow cooker chili",
			maxLen: 8,
			want:   "slow...",
		},
		{
			name:   "very short maxLen",
			input:  "pasta",
			maxLen: 2,
			want:   "pa",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
		{
			name:   "unicode truncated with ellipsis",
			input:  "味噌汁と白ごはん",
			maxLen: 5,
			want:   "味噌...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		input    time.Time
		contains string
	}{
		{
			name:     "just now",
			input:    now.Add(-30 * time.Second),
			contains: "just now",
		},
		{
			name:     "minutes ago",
			input:    now.Add(-5 * time.Minute),
			contains: "m ago",
		},
		{
			name:     "hours ago",
			input:    now.Add(-3 * time.Hour),
			contains: "h ago",
		},
		{
			name:     "days ago",
			input:    now.Add(-2 * 24 * time.Hour),
			contains: "d ago",
		},
		{
			name:     "weeks ago shows date",
			input:    now.Add(-14 * 24 * time.Hour),
			contains: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTime(tt.input)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("formatTime() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

func TestValidatePositiveInt64(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		fieldName string
		wantErr   bool
	}{
		{
			name:      "positive value",
			n:         5,
			fieldName: "household",
			wantErr:   false,
		},
		{
			name:      "zero value",
			n:         0,
			fieldName: "household",
			wantErr:   true,
		},
		{
			name:      "negative value",
			n:         -1,
			fieldName: "user",
			wantErr:   true,
		},
		{
			name:      "large positive value",
			n:         1 << 40,
			fieldName: "household",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePositiveInt64(tt.n, tt.fieldName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePositiveInt64(%d, %q) error = %v, wantErr %v", tt.n, tt.fieldName, err, tt.wantErr)
			}
			if tt.wantErr && err != nil && !strings.Contains(err.Error(), tt.fieldName) {
				t.Errorf("error message should contain field name %q: %v", tt.fieldName, err)
			}
		})
	}
}
