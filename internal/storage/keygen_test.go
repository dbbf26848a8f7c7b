package storage

import (
	"strings"
	"testing"
)

func isBase62(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}

	// Check prefix
	if !strings.HasPrefix(key, APIKeyPrefix) {
		t.Errorf("key should start with %q, got: %s", APIKeyPrefix, key)
	}

	// Check total length: "pg_" (3) + 64 chars = 67
	expectedLen := len(APIKeyPrefix) + APIKeyLength
	if len(key) != expectedLen {
		t.Errorf("expected key length %d, got %d", expectedLen, len(key))
	}

	// Check all chars after prefix are base62
	suffix := key[len(APIKeyPrefix):]
	for i := 0; i < len(suffix); i++ {
		if !isBase62(suffix[i]) {
			t.Errorf("invalid character at position %d: %c", i, suffix[i])
		}
	}
}

func TestGenerateAPIKeyUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		key, err := GenerateAPIKey()
		if err != nil {
			t.Fatalf("GenerateAPIKey failed on iteration %d: %v", i, err)
		}

		if seen[key] {
			t.Errorf("duplicate key generated: %s", key)
		}
		seen[key] = true
	}
}

func TestExtractKeyPrefix(t *testing.T) {
	key, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}

	prefix := ExtractKeyPrefix(key)
	if len(prefix) != APIKeyPrefixLen {
		t.Errorf("expected prefix length %d, got %d", APIKeyPrefixLen, len(prefix))
	}
	if !strings.HasPrefix(key, prefix) {
		t.Errorf("prefix %q is not a prefix of key %q", prefix, key)
	}

	// Short inputs come back unchanged
	if got := ExtractKeyPrefix("pg_"); got != "pg_" {
		t.Errorf("expected short key unchanged, got %q", got)
	}
}
