package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DriverFile persists products to a flat text file.
	DriverFile = "file"
	// DriverMemory keeps products in memory only.
	DriverMemory = "memory"
)

type Config struct {
	Store struct {
		Driver    string `koanf:"driver"`
		Path      string `koanf:"path"`
		Delimiter string `koanf:"delimiter"`
		Strict    bool   `koanf:"strict"`
	} `koanf:"store"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func (c Config) String() string {
	return fmt.Sprintf("store.driver=%s, store.path=%s, store.delimiter=%q, store.strict=%t, log_level=%s.",
		c.Store.Driver,
		c.Store.Path,
		c.Store.Delimiter,
		c.Store.Strict,
		c.Log.Level)
}

const (
	envPrefix      = "inventory_"
	defaultEnvFile = ".env"
	configFile     = "config.yaml"
)

// defaults reproduce the behaviour of the tool when nothing is configured.
var defaults = map[string]any{
	"store.driver":    DriverFile,
	"store.path":      "inventory.txt",
	"store.delimiter": "|",
	"store.strict":    false,
	"log.level":       "warn",
}

// Load reads the configuration from defaults, a file and environment variables
func Load() (*Config, error) {
	return load(configFile, defaultEnvFile)
}

func load(yamlFile, envFile string) (*Config, error) {
	// Create a new Koanf instance
	var k = koanf.New(".")

	// 0. Built-in defaults, the lowest priority
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// 1. Load configuration from yaml file
	if err := k.Load(file.Provider(yamlFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config: %v", err)
		}
	}

	// 2. Load environment variables from .env file
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if hasEnvPrefix(key) {
				envMap[keyTransformer(key)] = value
			}
		}
		// Load the envMap into Koanf
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(strings.ToUpper(envPrefix), ".", keyTransformer), nil); err != nil {
		log.Printf("WARN: error loading env vars: %v", err)
	}

	var cfg Config
	// 4. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 5. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if the configuration values are valid
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store path is not configured")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid store driver: %q", c.Store.Driver)
	}
	if utf8.RuneCountInString(c.Store.Delimiter) != 1 || strings.ContainsAny(c.Store.Delimiter, "\r\n") {
		return fmt.Errorf("store delimiter must be a single character other than a line break: %q", c.Store.Delimiter)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	return nil
}

func hasEnvPrefix(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), envPrefix)
}

// keyTransformer transforms environment variable keys to match the expected format
func keyTransformer(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, envPrefix)
	return strings.ReplaceAll(key, "_", ".")
}
