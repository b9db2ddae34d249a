package config

import (
	"fmt"
	"net/url"
	"strings"
)

// APIConfig points the console at a products API.
type APIConfig struct {
	BaseURL string `koanf:"baseurl"`
}

// String returns a string representation of the API configuration.
func (c *APIConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- API ---\n")
	b.WriteString(fmt.Sprintf("  baseurl: %s\n", c.BaseURL))
	return b.String()
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("API base URL is not configured")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API base URL must start with http:// or https://: %s", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("API base URL has no host: %s", c.BaseURL)
	}
	return nil
}
