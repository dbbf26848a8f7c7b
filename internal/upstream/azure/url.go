package azure

import (
	"fmt"
	"net/url"
	"strings"
)

// endpointHost normalizes an Azure endpoint to its bare host.
// Accepts forms with or without the https:// prefix or a trailing slash.
func endpointHost(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimSuffix(endpoint, "/")

	if endpoint == "" {
		return "", fmt.Errorf("empty endpoint")
	}

	parsed, err := url.Parse("https://" + endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid endpoint: no host in %q", endpoint)
	}

	return parsed.Host, nil
}
