package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mandalnilabja/promptgate/internal/storage"
)

// createKey generates a new gateway key, stores its hash and prints the key
// once. The plaintext is not recoverable afterwards.
func createKey(store storage.Storage, name string) error {
	key, err := storage.GenerateAPIKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	hash, err := storage.HashSecret(key, storage.DefaultArgon2Params())
	if err != nil {
		return fmt.Errorf("failed to hash key: %w", err)
	}

	record := &storage.ClientAPIKey{
		Name:      name,
		KeyHash:   hash,
		KeyPrefix: storage.ExtractKeyPrefix(key),
		IsActive:  true,
	}

	if err := store.CreateAPIKey(record); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	fmt.Printf("Created gateway API key %q (%s)\n\n", name, record.ID)
	fmt.Printf("  %s\n\n", key)
	fmt.Println("Store this key now. It cannot be shown again.")
	return nil
}

func listKeys(store storage.Storage) error {
	keys, err := store.ListAPIKeys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Println("No gateway API keys. The proxy accepts all requests.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPREFIX\tACTIVE\tLAST USED\tCREATED")
	for _, k := range keys {
		lastUsed := "never"
		if k.LastUsedAt != nil {
			lastUsed = k.LastUsedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s...\t%t\t%s\t%s\n",
			k.ID, k.Name, k.KeyPrefix, k.IsActive, lastUsed, k.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func revokeKey(store storage.Storage, id string) error {
	if err := store.RevokeAPIKey(id); err != nil {
		return fmt.Errorf("failed to revoke key %s: %w", id, err)
	}
	fmt.Printf("Revoked key %s\n", id)
	return nil
}
