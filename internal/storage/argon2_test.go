package storage

import (
	"strings"
	"testing"
)

func TestDefaultArgon2Params(t *testing.T) {
	params := DefaultArgon2Params()

	if params.Memory != 64*1024 {
		t.Errorf("expected memory 64MB, got %d KB", params.Memory)
	}
	if params.Iterations != 1 {
		t.Errorf("expected iterations 1, got %d", params.Iterations)
	}
	if params.Parallelism != 4 {
		t.Errorf("expected parallelism 4, got %d", params.Parallelism)
	}
	if params.SaltLength != 16 {
		t.Errorf("expected salt length 16, got %d", params.SaltLength)
	}
	if params.KeyLength != 32 {
		t.Errorf("expected key length 32, got %d", params.KeyLength)
	}
}

func TestHashSecret(t *testing.T) {
	secret := "pg_testsecret123"
	params := DefaultArgon2Params()

	hash, err := HashSecret(secret, params)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	// Verify hash format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("hash should start with $argon2id$v=, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Errorf("expected 6 parts in hash, got %d", len(parts))
	}
}

func TestHashSecretNilParams(t *testing.T) {
	hash, err := HashSecret("pg_testsecret123", nil)
	if err != nil {
		t.Fatalf("HashSecret with nil params failed: %v", err)
	}

	if hash == "" {
		t.Error("expected non-empty hash")
	}
}

func TestHashSecretUniqueSalts(t *testing.T) {
	secret := "pg_samesecret"

	hash1, err := HashSecret(secret, nil)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}
	hash2, err := HashSecret(secret, nil)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("hashes of the same secret should differ due to random salts")
	}
}

func TestVerifySecret(t *testing.T) {
	secret := "pg_correctsecret"

	hash, err := HashSecret(secret, nil)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	ok, err := VerifySecret(secret, hash)
	if err != nil {
		t.Fatalf("VerifySecret failed: %v", err)
	}
	if !ok {
		t.Error("expected correct secret to verify")
	}

	ok, err = VerifySecret("pg_wrongsecret", hash)
	if err != nil {
		t.Fatalf("VerifySecret failed: %v", err)
	}
	if ok {
		t.Error("expected wrong secret to fail verification")
	}
}

func TestVerifySecretInvalidHash(t *testing.T) {
	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not a hash", "plaintext"},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=65536,t=1,p=4"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := VerifySecret("secret", tc.hash); err == nil {
				t.Errorf("expected error for hash %q", tc.hash)
			}
		})
	}
}
