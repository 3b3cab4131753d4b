package config

import "github.com/bobmcallan/vault-mcp/internal/common"

// DefaultVaultURL is used when neither the config file nor VAULT_API_URL sets one.
const DefaultVaultURL = "http://localhost:8000"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Vault: VaultConfig{
			URL: DefaultVaultURL,
		},
		Server: ServerConfig{
			Name: "vault-mcp",
		},
		Notes: NotesConfig{
			SplitFrontMatter: false,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/vault-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
