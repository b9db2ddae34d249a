// Package configloader builds a typed configuration from layered sources.
package configloader

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

type Validator interface {
	Validate() error
}

// Options selects the sources of a Load call.
type Options struct {
	// EnvPrefix filters environment variables, e.g. "PRODUCTS_" maps PRODUCTS_API_BASEURL to api.baseurl.
	EnvPrefix string
	// ConfigFile is a YAML file. When empty, config.yaml is read if it exists.
	ConfigFile string
	// EnvFile is a dotenv file. When empty, .env is read if it exists.
	EnvFile string
	// Defaults are loaded first, Overrides last.
	Defaults  map[string]any
	Overrides map[string]any
}

// Load merges, lowest priority first: defaults, YAML file, dotenv file, process
// environment, overrides. The result is unmarshalled into T and validated.
func Load[T Validator](opts Options) (T, error) {
	var cfg T
	k := koanf.New(".")

	// 1. Defaults
	if len(opts.Defaults) > 0 {
		if err := k.Load(confmap.Provider(opts.Defaults, "."), nil); err != nil {
			return cfg, fmt.Errorf("error loading defaults: %w", err)
		}
	}

	// 2. Load configuration from yaml file
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if opts.ConfigFile != "" {
			return cfg, fmt.Errorf("error loading config file '%s': %w", configFile, err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	// 3. Load environment variables from .env file
	envTransformer := keyTransformer(opts.EnvPrefix)
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !hasPrefixFold(key, opts.EnvPrefix) {
				continue
			}
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 4. Load environment variables from the system
	if err := k.Load(env.Provider(opts.EnvPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	// 5. Overrides, the highest priority
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return cfg, fmt.Errorf("error loading overrides: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// keyTransformer turns PREFIX_SECTION_KEY into section.key.
func keyTransformer(prefix string) func(string) string {
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, strings.ToLower(prefix))
		return strings.ReplaceAll(key, "_", ".")
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
