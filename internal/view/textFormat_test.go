package view

import (
	"testing"
)

func TestTruncateTextToWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		input    string
		expected string
	}{
		{
			name:     "Short text, no truncation",
			width:    10,
			input:    "short",
			expected: "short     ",
		},
		{
			name:     "Exact width text",
			width:    5,
			input:    "exact",
			expected: "exact",
		},
		{
			name:     "Long text, truncation with ellipsis",
			width:    10,
			input:    "This is a very long text",
			expected: "...ng text",
		},
		{
			name:     "Width less than 3, no ellipsis",
			width:    2,
			input:    "long text",
			expected: "xt",
		},
		{
			name:     "Multibyte path keeps whole characters",
			width:    6,
			input:    "src/ünïcödé",
			expected: "...ödé",
		},
		{
			name:     "Wide characters count as two columns",
			width:    7,
			input:    "補丁/日本語",
			expected: "...本語",
		},
		{
			name:     "Negative width",
			width:    -1,
			input:    "text",
			expected: "",
		},
		{
			name:     "Multiple lines, mixed lengths",
			width:    10,
			input:    "short\nThis is a very long text\nexact",
			expected: "short     \n...ng text\nexact     ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateTextToWidth(tt.width, tt.input)
			if result != tt.expected {
				t.Errorf("Test expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestTrimTextToWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		input    string
		expected string
	}{
		{
			name:     "Trims and pads lines",
			width:    5,
			input:    "abcdefgh\nab",
			expected: "abcde\nab   ",
		},
		{
			name:     "Patch output with multibyte text",
			width:    8,
			input:    "Hunk #1 FAILED at 3: ünchanged",
			expected: "Hunk #1 ",
		},
		{
			name:     "Wide character does not overflow",
			width:    3,
			input:    "日本語",
			expected: "日 ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrimTextToWidth(tt.width, tt.input)
			if result != tt.expected {
				t.Errorf("Test expected %q, got %q", tt.expected, result)
			}
		})
	}
}
