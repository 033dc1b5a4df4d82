package security

import "testing"

func TestHashPasswordVerifies(t *testing.T) {
	hash, err := HashPassword("s3cret@123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	if hash == "s3cret@123" {
		t.Fatal("hash must not equal plaintext")
	}

	if !VerifyPassword("s3cret@123", hash) {
		t.Fatal("expected hash to verify original plaintext")
	}

	if VerifyPassword("wrong-password", hash) {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestHashPasswordRandomized(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	if first == second {
		t.Fatal("expected salted hashes to differ between calls")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}

	if VerifyPassword("", "") {
		t.Fatal("empty inputs must not verify")
	}
}
