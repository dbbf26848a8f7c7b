// Package config loads Promptgate configuration from the environment and
// an optional TOML file. Priority: env vars, then config.toml, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default values for optional settings.
const (
	DefaultServerPort   = ":8080"
	DefaultAPIVersion   = "2024-12-01-preview"
	DefaultRewriteTTL   = 10 * time.Minute
	DefaultLogRetention = 30 // days
)

// Config holds the full application configuration.
type Config struct {
	// Upstream credentials and deployments (env only, never persisted)
	APIKey         string
	Endpoint       string
	FullDeployment string
	MiniDeployment string
	APIVersion     string

	// ServerPort is the listen address (e.g. ":8080")
	ServerPort string

	// OTLPEndpoint enables trace export when non-empty (host:port)
	OTLPEndpoint string

	// Rewrite pass tuning
	RewriteMaxTokens int
	RewriteCacheTTL  time.Duration

	// LogRetentionDays bounds how long request logs are kept
	LogRetentionDays int
}

// Load reads configuration from the optional file and the environment.
func Load() *Config {
	fileCfg, _ := LoadFile() // missing or broken file falls back to defaults

	cfg := &Config{
		APIKey:           os.Getenv("OPENAI_API_KEY"),
		Endpoint:         os.Getenv("AZURE_OPENAI_ENDPOINT"),
		FullDeployment:   os.Getenv("FULL_DEPLOYMENT"),
		MiniDeployment:   os.Getenv("MINI_DEPLOYMENT"),
		APIVersion:       getEnvOrFile("AZURE_API_VERSION", fileCfg.APIVersion, DefaultAPIVersion),
		ServerPort:       getEnvOrFile("SERVER_PORT", fileCfg.ServerPort, DefaultServerPort),
		OTLPEndpoint:     getEnvOrFile("OTLP_GRPC_ENDPOINT", fileCfg.OTLPEndpoint, ""),
		RewriteMaxTokens: getEnvIntOrFile("REWRITE_MAX_TOKENS", fileCfg.Rewrite.MaxTokens, 0),
		RewriteCacheTTL:  DefaultRewriteTTL,
		LogRetentionDays: getEnvIntOrFile("LOG_RETENTION_DAYS", fileCfg.LogRetentionDays, DefaultLogRetention),
	}

	if fileCfg.Rewrite.CacheTTLSeconds != nil && *fileCfg.Rewrite.CacheTTLSeconds >= 0 {
		cfg.RewriteCacheTTL = time.Duration(*fileCfg.Rewrite.CacheTTLSeconds) * time.Second
	}

	return cfg
}

// Validate reports every missing required environment variable at once.
func (c *Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Endpoint == "" {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if c.FullDeployment == "" {
		missing = append(missing, "FULL_DEPLOYMENT")
	}
	if c.MiniDeployment == "" {
		missing = append(missing, "MINI_DEPLOYMENT")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	if c.ServerPort == "" {
		return errors.New("server port must not be empty")
	}
	return nil
}

// TracingEnabled reports whether an OTLP collector is configured.
func (c *Config) TracingEnabled() bool {
	return c.OTLPEndpoint != ""
}

// getEnvOrFile returns env value, file value, or default, in priority order.
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default, in priority order.
func getEnvIntOrFile(key string, fileValue *int, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}
