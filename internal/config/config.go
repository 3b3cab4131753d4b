package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/vault-mcp/internal/common"
)

// DefaultConfigFile is looked up in the working directory when no --config is given.
const DefaultConfigFile = "vault-mcp.toml"

// Config represents the application configuration.
type Config struct {
	Vault   VaultConfig          `toml:"vault"`
	Server  ServerConfig         `toml:"server"`
	Notes   NotesConfig          `toml:"notes"`
	Logging common.LoggingConfig `toml:"logging"`
}

// VaultConfig describes the upstream vault REST API.
type VaultConfig struct {
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"` // Go duration; empty or "0" leaves the transport default
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name     string `toml:"name"`
	HTTPAddr string `toml:"http_addr"` // empty serves stdio
}

// NotesConfig tunes note tools.
type NotesConfig struct {
	SplitFrontMatter bool `toml:"split_front_matter"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// DiscoverConfigFile returns DefaultConfigFile when it exists in the working
// directory, otherwise "".
func DiscoverConfigFile() string {
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// applyEnvOverrides applies VAULT_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if u := os.Getenv("VAULT_API_URL"); u != "" {
		config.Vault.URL = u
	}
	if key := os.Getenv("VAULT_API_KEY"); key != "" {
		config.Vault.APIKey = key
	}
	if timeout := os.Getenv("VAULT_API_TIMEOUT"); timeout != "" {
		config.Vault.Timeout = timeout
	}
	if level := os.Getenv("VAULT_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if addr := os.Getenv("VAULT_MCP_HTTP_ADDR"); addr != "" {
		config.Server.HTTPAddr = addr
	}
	if split := os.Getenv("VAULT_MCP_SPLIT_FRONT_MATTER"); split != "" {
		if b, err := strconv.ParseBool(split); err == nil {
			config.Notes.SplitFrontMatter = b
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, logLevel, httpAddr string) {
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
	if httpAddr != "" {
		config.Server.HTTPAddr = httpAddr
	}
}

// Validate checks the values that the process cannot start without.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate requires an absolute http(s) base URL and a parseable timeout.
func (v *VaultConfig) Validate() error {
	u, err := url.Parse(v.URL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidBaseURL, v.URL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q must be absolute", ErrInvalidBaseURL, v.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q has unsupported scheme %q", ErrInvalidBaseURL, v.URL, u.Scheme)
	}
	if _, err := v.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// BaseURL returns the vault URL without a trailing slash.
func (v *VaultConfig) BaseURL() string {
	return strings.TrimRight(v.URL, "/")
}

// RequestTimeout parses Timeout. Zero means no client-side timeout.
func (v *VaultConfig) RequestTimeout() (time.Duration, error) {
	if v.Timeout == "" || v.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, v.Timeout)
	}
	return d, nil
}
