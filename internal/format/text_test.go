package format

import (
	"testing"
)

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no ansi", "now-7d", "now-7d"},
		{"single color", "\x1b[31mnow\x1b[0m", "now"},
		{"multiple colors", "\x1b[31mfrom\x1b[0m \x1b[32mto\x1b[0m", "from to"},
		{"bold", "\x1b[1mbold\x1b[0m", "bold"},
		{"complex", "\x1b[1;31;40mbold red on black\x1b[0m", "bold red on black"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripAnsi(tt.input)
			if got != tt.expected {
				t.Errorf("StripAnsi(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"ascii", "now|d", 5},
		{"with ansi", "\x1b[31mnow\x1b[0m", 3},
		{"wide chars", "日本語", 6},
		{"mixed", "開始 now", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayWidth(tt.input)
			if got != tt.expected {
				t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		maxWidth      int
		expectedStr   string
		expectedWidth int
	}{
		{"no truncation needed", "now-7d", 10, "now-7d", 6},
		{"exact fit", "now-7d", 6, "now-7d", 6},
		{"truncate ascii", "now-7d|d to now", 8, "now-7...", 8},
		{"colored fits", "\x1b[31mnow\x1b[0m", 5, "\x1b[31mnow\x1b[0m", 3},
		{"colored is stripped", "\x1b[31mred text\x1b[0m", 6, "red...", 6},
		{"very short max", "hello", 3, "...", 3},
		{"zero", "hello", 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStr, gotWidth := Truncate(tt.input, tt.maxWidth)
			if gotStr != tt.expectedStr {
				t.Errorf("Truncate(%q, %d) string = %q, want %q", tt.input, tt.maxWidth, gotStr, tt.expectedStr)
			}
			if gotWidth != tt.expectedWidth {
				t.Errorf("Truncate(%q, %d) width = %d, want %d", tt.input, tt.maxWidth, gotWidth, tt.expectedWidth)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		visibleWidth int
		targetWidth  int
		expected     string
	}{
		{"no padding needed", "hello", 5, 5, "hello"},
		{"add padding", "hi", 2, 5, "hi   "},
		{"already exceeds", "hello", 5, 3, "hello"},
		{"with ansi", "\x1b[31mred\x1b[0m", 3, 5, "\x1b[31mred\x1b[0m  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PadRight(tt.input, tt.visibleWidth, tt.targetWidth)
			if got != tt.expected {
				t.Errorf("PadRight(%q, %d, %d) = %q, want %q", tt.input, tt.visibleWidth, tt.targetWidth, got, tt.expected)
			}
		})
	}
}
