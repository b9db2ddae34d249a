// Package config defines the productsctl configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/productsctl/internal/config/configloader"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "PRODUCTS_"

// DefaultBaseURL is the products API address used when nothing else is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

type Config struct {
	API       APIConfig       `koanf:"api"`
	HTTP      HTTPConfig      `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Shutdown  ShutdownConfig  `koanf:"shutdown"`
}

func (c Config) String() string {
	var b strings.Builder
	b.WriteString(c.API.String())
	b.WriteString(c.HTTP.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

func (c Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := c.Shutdown.Validate(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Defaults returns the lowest priority configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"api.baseurl":               DefaultBaseURL,
		"server.port":               8000,
		"server.maxheaderbytes":     1 << 20,
		"server.timeout.read":       "5s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "60s",
		"server.timeout.readheader": "2s",
		"log.level":                 "warn",
		"log.format":                "text",
		"telemetry.enabled":         false,
		"telemetry.endpoint":        "localhost:4318",
		"telemetry.insecure":        true,
		"telemetry.timeout":         "5s",
		"shutdown.timeout":          "10s",
	}
}

// Load reads the configuration from defaults, configFile (or config.yaml), .env,
// PRODUCTS_* environment variables and finally overrides, e.g. values of CLI flags.
func Load(configFile string, overrides map[string]any) (Config, error) {
	return configloader.Load[Config](configloader.Options{
		EnvPrefix:  EnvPrefix,
		ConfigFile: configFile,
		Defaults:   Defaults(),
		Overrides:  overrides,
	})
}
