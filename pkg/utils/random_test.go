package utils

import "testing"

func TestGenerateGuestTag(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tag := GenerateGuestTag()
		if len(tag) != 8 {
			t.Fatalf("tag %q has length %d, want 8", tag, len(tag))
		}
		seen[tag] = true
	}
	// สุ่มจริง ไม่ใช่ค่าเดิมซ้ำ ๆ
	if len(seen) < 90 {
		t.Errorf("only %d distinct tags out of 100", len(seen))
	}
}

func TestGenerateRandomStringCharset(t *testing.T) {
	s := GenerateRandomString(64)
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			t.Fatalf("unexpected character %q in %q", r, s)
		}
	}
}
