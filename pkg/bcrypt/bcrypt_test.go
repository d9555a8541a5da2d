package bcrypt

import "testing"

func TestHashAndCompareSecret(t *testing.T) {
	b := New()

	hash, err := b.HashSecret("sc_live_4f8a")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if hash == "sc_live_4f8a" {
		t.Fatal("hash equals the plaintext")
	}

	if err := b.CompareSecret(hash, "sc_live_4f8a"); err != nil {
		t.Errorf("CompareSecret with the right secret: %v", err)
	}
	if err := b.CompareSecret(hash, "sc_live_9999"); err == nil {
		t.Error("CompareSecret accepted the wrong secret")
	}
}

// Each hash carries its own salt, so two hashes of one secret differ while
// both still verify.
func TestHashSecretSalted(t *testing.T) {
	b := New()

	first, err := b.HashSecret("shared")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	second, err := b.HashSecret("shared")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same secret are identical")
	}
	if err := b.CompareSecret(second, "shared"); err != nil {
		t.Errorf("CompareSecret on the second hash: %v", err)
	}
}
