package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/vault-mcp/internal/common"
	"github.com/bobmcallan/vault-mcp/internal/config"
	"github.com/bobmcallan/vault-mcp/internal/mcp"
	"github.com/bobmcallan/vault-mcp/internal/server"
	"github.com/bobmcallan/vault-mcp/internal/vault"
)

// rootOptions holds the flags shared by the root command.
type rootOptions struct {
	configPath string
	logLevel   string
	httpAddr   string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "vault-mcp: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "vault-mcp",
		Short: "MCP server exposing a note vault REST API as tools",
		Long: `vault-mcp speaks the Model Context Protocol on stdin/stdout (or streamable
HTTP with --http) and forwards every tool call to the vault REST API.

Configuration is read from vault-mcp.toml (or --config), then VAULT_* environment
variables, then flags.`,
		Version:       config.GetVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: ./vault-mcp.toml when present)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio, e.g. :8080")

	cmd.AddCommand(newCatalogCmd())
	return cmd
}

// serve loads configuration and runs the MCP server until input ends or a
// termination signal arrives.
func serve(cmd *cobra.Command, opts *rootOptions) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DiscoverConfigFile()
	}

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return err
	}
	config.ApplyFlagOverrides(cfg, opts.logLevel, opts.httpAddr)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	timeout, err := cfg.Vault.RequestTimeout()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	client := vault.NewClient(cfg.Vault.BaseURL(), logger,
		vault.WithAPIKey(cfg.Vault.APIKey),
		vault.WithTimeout(timeout),
	)
	reg, err := mcp.NewRegistry(client, logger, mcp.Catalog(mcp.Options{
		SplitFrontMatter: cfg.Notes.SplitFrontMatter,
	}))
	if err != nil {
		return err
	}
	mcpServer := mcp.NewServer(reg, cfg.Server.Name, config.GetVersion())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.HTTPAddr != "" {
		logger.Info().
			Str("version", config.GetVersion()).
			Str("vault", client.BaseURL()).
			Int("tools", len(reg.List())).
			Str("addr", cfg.Server.HTTPAddr).
			Msg("vault-mcp serving streamable HTTP")
		return server.New(cfg.Server.HTTPAddr, mcp.NewHandler(mcpServer), logger).Run(ctx)
	}

	logger.Info().
		Str("version", config.GetVersion()).
		Str("vault", client.BaseURL()).
		Int("tools", len(reg.List())).
		Msg("vault-mcp serving stdio")

	if err := mcp.ServeStdio(ctx, mcpServer, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return err
	}
	logger.Debug().Msg("stdio session ended")
	return nil
}
