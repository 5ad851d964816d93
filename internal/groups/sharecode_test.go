package groups

import (
	"strings"
	"testing"
)

func TestNewShareCodeShape(t *testing.T) {
	code, err := NewShareCode()
	if err != nil {
		t.Fatalf("NewShareCode: %v", err)
	}
	if len(code) != shareCodeLength {
		t.Fatalf("code %q has length %d, want %d", code, len(code), shareCodeLength)
	}
	for _, r := range code {
		if !strings.ContainsRune(shareCodeAlphabet, r) {
			t.Fatalf("code %q contains %q outside the alphabet", code, r)
		}
	}
}

func TestNewShareCodeVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := NewShareCode()
		if err != nil {
			t.Fatalf("NewShareCode: %v", err)
		}
		seen[code] = true
	}
	// 50 draws from a 62^8 space colliding down to a handful would mean the
	// generator is not actually random.
	if len(seen) < 45 {
		t.Fatalf("only %d distinct codes out of 50", len(seen))
	}
}
