package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("hash must not equal the password")
	}

	if err := hasher.Compare(hash, "s3cret-pass"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := hasher.Compare(hash, "wrong-pass"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestNewBcryptHasher_DefaultsOutOfRangeCost(t *testing.T) {
	t.Parallel()

	if got := NewBcryptHasher(0).cost; got != DefaultBcryptCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcryptHasher(bcrypt.MaxCost + 1).cost; got != DefaultBcryptCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}
