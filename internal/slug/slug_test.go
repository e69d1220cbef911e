package slug

import (
	"errors"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple two words", "Hello World", "hello-world"},
		{"destination title", "Nine Arches Bridge, Ella!", "nine-arches-bridge-ella"},
		{"title with year", "Sri Lanka Travel Guide 2026", "sri-lanka-travel-guide-2026"},
		{"punctuation marks", "What's the best beach? Mirissa!", "whats-the-best-beach-mirissa"},
		{"ampersand and at sign", "Surf & Stay @ Arugam Bay", "surf-stay-arugam-bay"},
		{"parentheses", "Kandy to Ella (by train)", "kandy-to-ella-by-train"},
		{"leading and trailing spaces", "  hello world  ", "hello-world"},
		{"multiple hyphens between words", "hello---world", "hello-world"},
		{"single hyphen preserved", "well-known fact", "well-known-fact"},
		{"empty string", "", ""},
		{"only special characters", "!@#$%^&*()", ""},
		{"only hyphens", "-----", ""},
		{"all numbers", "123456", "123456"},
		{"date-like string", "2026-02-25", "2026-02-25"},
		{"colon separated title", "Colombo: A Complete Guide", "colombo-a-complete-guide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	slugs := []string{"hello-world", "galle-fort-2026", "a", "123"}
	for _, s := range slugs {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result", s, got)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	t.Run("free slug is returned unchanged", func(t *testing.T) {
		got, err := Unique("galle-fort", func(string) (bool, error) { return false, nil })
		if err != nil {
			t.Fatalf("Unique: %v", err)
		}
		if got != "galle-fort" {
			t.Errorf("got %q, want %q", got, "galle-fort")
		}
	})

	t.Run("taken slugs get numeric suffixes", func(t *testing.T) {
		taken := map[string]bool{"galle-fort": true, "galle-fort-2": true}
		got, err := Unique("galle-fort", func(s string) (bool, error) { return taken[s], nil })
		if err != nil {
			t.Fatalf("Unique: %v", err)
		}
		if got != "galle-fort-3" {
			t.Errorf("got %q, want %q", got, "galle-fort-3")
		}
	})

	t.Run("lookup error propagates", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := Unique("x", func(string) (bool, error) { return false, boom })
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want %v", err, boom)
		}
	})
}
