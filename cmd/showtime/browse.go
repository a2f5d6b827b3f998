package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/showtime/internal/config"
	"github.com/vadimtrunov/showtime/internal/frontend/tui"
)

// debugLogFile receives logs while the full-screen browser owns the terminal.
const debugLogFile = "showtime-debug.log"

// newBrowseCmd returns the "browse" subcommand for the interactive browser.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse popular movies in the terminal",
		Long: "Open a full-screen browser of the popular movies list.\n" +
			"Scrolling to the bottom loads the next page; enter opens a movie.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd.Context())
		},
	}
}

func runBrowse(ctx context.Context) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := browseLogger(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := initCatalog(cfg, nil, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	model := tui.New(tui.Config{
		Popular:  client.PopularLoader(),
		Details:  client.DetailLoader(),
		Images:   client.ImageLoader(),
		ImageURL: client.ImageURL,
		Language: client.Language(),
		Logger:   logger,
	})

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("browser starting")
	return tui.NewBrowser(model, tea.WithAltScreen()).Start(ctx)
}

// browseLogger keeps logs off the screen: they go to a file at debug level
// and are discarded otherwise.
func browseLogger(level string) (*slog.Logger, func(), error) {
	if config.ParseLevel(level) != slog.LevelDebug {
		return config.SetupLogger(level, io.Discard), func() {}, nil
	}
	f, err := tea.LogToFile(debugLogFile, "debug")
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	return config.SetupLogger(level, f), func() { _ = f.Close() }, nil
}
