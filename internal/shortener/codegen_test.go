package shortener

import (
	"errors"
	"strings"
	"testing"
)

func TestCryptoCodeGeneratorLength(t *testing.T) {
	for _, length := range []int{4, 6, 8, 12} {
		gen := NewCryptoCodeGenerator(length)
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("length %d: unexpected error: %v", length, err)
		}
		if len(code) != length {
			t.Errorf("length %d: got %q (len %d)", length, code, len(code))
		}
	}
}

func TestCryptoCodeGeneratorDefaultsLength(t *testing.T) {
	gen := NewCryptoCodeGenerator(0)
	code, err := gen.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("got len %d, want 6", len(code))
	}
}

func TestCryptoCodeGeneratorAlphabet(t *testing.T) {
	gen := NewCryptoCodeGenerator(16)
	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
	}
}

func TestCryptoCodeGeneratorVariance(t *testing.T) {
	gen := NewCryptoCodeGenerator(8)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[code] = true
	}
	// 100 draws from a 62^8 space colliding would mean a broken generator.
	if len(seen) < 100 {
		t.Errorf("only %d distinct codes out of 100", len(seen))
	}
}

func TestValidateCustomCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"simple", "mylink", false},
		{"with dash", "my-link", false},
		{"with underscore", "my_link", false},
		{"mixed case digits", "My-Link_42", false},
		{"min length", "abcd", false},
		{"max length", strings.Repeat("a", 32), false},
		{"too short", "abc", true},
		{"too long", strings.Repeat("a", 33), true},
		{"empty", "", true},
		{"space", "my link", true},
		{"slash", "my/link", true},
		{"unicode", "liené", true},
		{"reserved api", "api", true},
		{"reserved shorten", "shorten", true},
		{"reserved mixed case", "Shorten", true},
		{"reserved health", "health", true},
		{"reserved metrics", "metrics", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCustomCode(tt.code)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCustomCode) {
					t.Errorf("err = %v, want ErrInvalidCustomCode", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
