package token

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tok, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(tok) != Length {
		t.Errorf("New() length = %d, want %d", len(tok), Length)
	}
	if !Valid(tok) {
		t.Errorf("Valid(%q) = false for generated token", tok)
	}
	if strings.ContainsAny(tok, "+/=") {
		t.Errorf("New() = %q contains non-URL-safe characters", tok)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		tok, err := New()
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if seen[tok] {
			t.Fatalf("New() produced duplicate token %q", tok)
		}
		seen[tok] = true
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{"empty", "", false},
		{"too short", "abc", false},
		{"too long", strings.Repeat("a", 44), false},
		{"right length", strings.Repeat("a", 43), true},
		{"url-safe charset", strings.Repeat("-", 21) + strings.Repeat("_", 22), true},
		{"standard base64 chars rejected", strings.Repeat("a", 42) + "+", false},
		{"whitespace rejected", strings.Repeat("a", 42) + " ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.token); got != tt.expected {
				t.Errorf("Valid(%q) = %v, want %v", tt.token, got, tt.expected)
			}
		})
	}
}
