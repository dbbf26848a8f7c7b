package sqlite

import (
	"database/sql"
	"time"

	"github.com/mandalnilabja/promptgate/internal/storage/models"
)

// CreateAPIKey stores a new gateway API key record.
func (s *Storage) CreateAPIKey(key *models.ClientAPIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if key.Name == "" || key.KeyHash == "" || key.KeyPrefix == "" {
		return ErrInvalidInput
	}

	if key.ID == "" {
		key.ID = generateID("key")
	}
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO api_keys (id, name, key_hash, key_prefix, is_active, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, key.ID, key.Name, key.KeyHash, key.KeyPrefix, boolToInt(key.IsActive),
		key.CreatedAt, key.ExpiresAt)

	return err
}

// GetAPIKeyByPrefix returns all active keys matching a lookup prefix.
// Prefixes are not unique, so verification must check each candidate hash.
func (s *Storage) GetAPIKeyByPrefix(prefix string) ([]*models.ClientAPIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query(`
		SELECT id, name, key_hash, key_prefix, is_active, last_used_at, created_at, expires_at
		FROM api_keys
		WHERE key_prefix = ? AND is_active = 1
	`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAPIKeys(rows)
}

// ListAPIKeys returns all keys, newest first.
func (s *Storage) ListAPIKeys() ([]*models.ClientAPIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query(`
		SELECT id, name, key_hash, key_prefix, is_active, last_used_at, created_at, expires_at
		FROM api_keys
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAPIKeys(rows)
}

// RevokeAPIKey deactivates a key by ID.
func (s *Storage) RevokeAPIKey(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec("UPDATE api_keys SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateAPIKeyLastUsed records when a key was last used for authentication.
func (s *Storage) UpdateAPIKeyLastUsed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	_, err := s.db.Exec("UPDATE api_keys SET last_used_at = ? WHERE id = ?", time.Now().UTC(), id)
	return err
}

// HasActiveAPIKeys reports whether any active key exists. When none do,
// the gateway runs in open access mode.
func (s *Storage) HasActiveAPIKeys() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrStorageClosed
	}

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM api_keys WHERE is_active = 1").Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func scanAPIKeys(rows *sql.Rows) ([]*models.ClientAPIKey, error) {
	var keys []*models.ClientAPIKey
	for rows.Next() {
		var k models.ClientAPIKey
		var isActive int
		var lastUsed, expires sql.NullTime

		err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &isActive,
			&lastUsed, &k.CreatedAt, &expires)
		if err != nil {
			return nil, err
		}

		k.IsActive = isActive == 1
		if lastUsed.Valid {
			k.LastUsedAt = &lastUsed.Time
		}
		if expires.Valid {
			k.ExpiresAt = &expires.Time
		}
		keys = append(keys, &k)
	}

	return keys, rows.Err()
}
