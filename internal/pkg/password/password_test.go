package password

import (
	"strings"
	"testing"
)

func TestHashVerify(t *testing.T) {
	passwords := []string{"correct horse battery staple", "p", "pässwörd-ü", ""}
	for _, pw := range passwords {
		stored, err := Hash(pw)
		if err != nil {
			t.Fatalf("Hash(%q) error = %v", pw, err)
		}
		if !Verify(pw, stored) {
			t.Fatalf("Verify(%q, Hash(%q)) = false, want true", pw, pw)
		}
		if Verify(pw+"x", stored) {
			t.Fatalf("Verify(%q, Hash(%q)) = true, want false", pw+"x", pw)
		}
	}
}

func TestHashFormat(t *testing.T) {
	stored, err := Hash("secret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	salt, key, ok := strings.Cut(stored, ":")
	if !ok {
		t.Fatalf("stored = %q, want salt:key", stored)
	}
	if len(salt) != 32 {
		t.Fatalf("salt hex length = %d, want 32", len(salt))
	}
	if len(key) != 128 {
		t.Fatalf("key hex length = %d, want 128", len(key))
	}
}

func TestHashUsesDistinctSalts(t *testing.T) {
	a, err := Hash("same")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	b, err := Hash("same")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password are identical: %q", a)
	}
	if !Verify("same", a) || !Verify("same", b) {
		t.Fatalf("salted hashes failed to verify")
	}
}

func TestVerifyRejectsMalformedStored(t *testing.T) {
	for _, stored := range []string{"", "nocolon", ":abcd", "abcd:", "abcd:not-hex", "abcd:00ff"} {
		if Verify("anything", stored) {
			t.Fatalf("Verify(_, %q) = true, want false", stored)
		}
	}
}
