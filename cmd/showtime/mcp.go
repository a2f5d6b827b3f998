package main

import (
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/showtime/internal/config"
	mcpserver "github.com/vadimtrunov/showtime/internal/mcp"
)

// newMCPCmd returns the "mcp" subcommand. It serves the movie catalog as
// MCP tools over stdin/stdout, so logs must never go to stdout.
func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the movie catalog as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			logger := config.SetupLogger(cfg.App.LogLevel, nil)

			client, err := initCatalog(cfg, nil, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			srv := mcpserver.NewServer(client, version, logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
