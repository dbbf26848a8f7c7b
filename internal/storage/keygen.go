package storage

import (
	"crypto/rand"
	"math/big"
)

const (
	// APIKeyPrefix is the prefix for all Promptgate gateway keys.
	APIKeyPrefix = "pg_"
	// APIKeyLength is the number of random characters after the prefix.
	APIKeyLength = 64
	// APIKeyPrefixLen is the length of the identifying prefix ("pg_" + 8 chars).
	APIKeyPrefixLen = 11
)

// base62Alphabet contains characters for key generation (0-9, A-Z, a-z).
var base62Alphabet = []byte("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")

// GenerateAPIKey creates a new gateway key: pg_ + 64 base62 chars.
func GenerateAPIKey() (string, error) {
	result := make([]byte, APIKeyLength)
	alphabetLen := big.NewInt(int64(len(base62Alphabet)))

	for i := 0; i < APIKeyLength; i++ {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		result[i] = base62Alphabet[idx.Int64()]
	}

	return APIKeyPrefix + string(result), nil
}

// ExtractKeyPrefix returns the identifying prefix of a key ("pg_a1B2c3D4").
func ExtractKeyPrefix(key string) string {
	if len(key) < APIKeyPrefixLen {
		return key
	}
	return key[:APIKeyPrefixLen]
}
