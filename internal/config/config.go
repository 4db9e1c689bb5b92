package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Auth   AuthConfig   `toml:"auth"`
	OpenAI OpenAIConfig `toml:"openai"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// AuthConfig holds endpoint access-control settings. An empty token
// disables the check entirely (open access).
type AuthConfig struct {
	Token           string `toml:"token"`
	AllowQueryToken bool   `toml:"allow_query_token"`
}

// OpenAIConfig holds upstream API settings.
type OpenAIConfig struct {
	APIKey        string `toml:"api_key"`
	Model         string `toml:"model"`
	FallbackModel string `toml:"fallback_model"`
	BaseURL       string `toml:"base_url"`
	RequestStyle  string `toml:"request_style"`
}

const defaultConfigContent = `[server]
port = 8080

[auth]
token = ""                # shared secret (or set DEEP_TOKEN env var); empty = open access
allow_query_token = false # also accept ?token=<secret> in the query string

[openai]
api_key = ""                      # Your API key (or set OPENAI_API_KEY env var)
model = "o4-mini-deep-research"   # primary deep-research model
fallback_model = "gpt-4o-mini"    # used when the primary model is unavailable
request_style = "input_text"      # "input_text" or "developer_tools"
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// explicitly writing "port = 0" is an error rather than silently
	// being replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
// This catches cases like "port = 0" which would otherwise be silently
// replaced by the default value.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "o4-mini-deep-research"
	}
	if cfg.OpenAI.FallbackModel == "" {
		cfg.OpenAI.FallbackModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.RequestStyle == "" {
		cfg.OpenAI.RequestStyle = "input_text"
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("DEEP_TOKEN"); v != "" {
		cfg.Auth.Token = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	switch cfg.OpenAI.RequestStyle {
	case "input_text", "developer_tools":
		// valid
	default:
		return fmt.Errorf("invalid openai.request_style %q: must be \"input_text\" or \"developer_tools\"", cfg.OpenAI.RequestStyle)
	}

	if cfg.OpenAI.APIKey == "" {
		slog.Warn("openai.api_key is empty: set it in the config file or via OPENAI_API_KEY environment variable")
	}
	if cfg.Auth.Token == "" {
		slog.Warn("auth.token is empty: the digest endpoint will accept unauthenticated requests")
	}

	return nil
}
