package utils

import (
	"strings"
	"testing"
)

func TestGenerateMatchCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := GenerateMatchCode(6)
		if len(code) != 6 {
			t.Fatalf("code length = %d, want 6", len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(matchCodeAlphabet, r) {
				t.Fatalf("code %q contains character outside alphabet", code)
			}
		}
		seen[code] = true
	}
	// 50 draws from a 32^6 space should essentially never collide every time.
	if len(seen) < 2 {
		t.Fatalf("expected distinct codes, got %d unique out of 50", len(seen))
	}
}

func TestGenerateRandomToken(t *testing.T) {
	token := GenerateRandomToken(32)
	if len(token) != 32 {
		t.Fatalf("token length = %d, want 32", len(token))
	}
	if token == GenerateRandomToken(32) {
		t.Fatal("two random tokens were identical")
	}
}
