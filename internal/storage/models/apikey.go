package models

import "time"

// ClientAPIKey is a gateway access key. Only the argon2id hash is stored;
// the full key is printed once at creation time.
type ClientAPIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`          // never exposed in JSON
	KeyPrefix  string     `json:"key_prefix"` // first chars for lookup (e.g. "pg_a1B2c3D4")
	IsActive   bool       `json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the key is past its expiry, if any.
func (k *ClientAPIKey) IsExpired() bool {
	if k.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*k.ExpiresAt)
}
