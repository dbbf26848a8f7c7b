package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
// Credentials and deployment names are deliberately absent; those come
// from the environment only.
type FileConfig struct {
	ServerPort       string        `toml:"server_port"`
	APIVersion       string        `toml:"api_version"`
	OTLPEndpoint     string        `toml:"otlp_grpc_endpoint"`
	LogRetentionDays *int          `toml:"log_retention_days"`
	Rewrite          RewriteConfig `toml:"rewrite"`
}

// RewriteConfig tunes the rewrite pass.
type RewriteConfig struct {
	MaxTokens       *int `toml:"max_tokens"`
	CacheTTLSeconds *int `toml:"cache_ttl_seconds"`
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile writes a commented example config if none exists yet.
func EnsureConfigFile() error {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# Promptgate Configuration
# Credentials and deployment names come from the environment:
#   OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, FULL_DEPLOYMENT, MINI_DEPLOYMENT

# server_port = ":8080"
# api_version = "2024-12-01-preview"
# otlp_grpc_endpoint = "localhost:4317"
# log_retention_days = 30

# [rewrite]
# max_tokens = 1000
# cache_ttl_seconds = 600
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
