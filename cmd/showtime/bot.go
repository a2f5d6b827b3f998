package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vadimtrunov/showtime/internal/config"
	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/frontend/telegram"
	"github.com/vadimtrunov/showtime/internal/server"
)

// newBotCmd returns the "bot" subcommand for running the Telegram bot.
func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start the Telegram bot",
		Long: "Start the ShowTime Telegram bot. When metrics.listen is configured,\n" +
			"a Prometheus endpoint is served alongside it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context())
		},
	}
}

// runBot starts the bot and the optional metrics server. The first one to
// fail stops the other.
func runBot(ctx context.Context) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Telegram == nil {
		return errors.New(
			"telegram configuration is required: set telegram.bot_token in config or SHOWTIME_TELEGRAM_BOT_TOKEN env var",
		)
	}

	logger := config.SetupLogger(cfg.App.LogLevel, nil)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := initCatalog(cfg, reg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	bot, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.AllowedUserIDs, telegram.Deps{
		Popular:  client.PopularLoader(),
		Details:  client.DetailLoader(),
		Images:   client.ImageLoader(),
		ImageURL: client.ImageURL,
		Language: client.Language(),
	}, logger)
	if err != nil {
		return err
	}

	frontends := []core.Frontend{bot}
	if cfg.Metrics != nil {
		frontends = append(frontends, server.New(cfg.Metrics.Listen, reg, logger))
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return runFrontends(ctx, frontends, logger)
}

// runFrontends starts every frontend and waits for all of them. When one
// returns, the others are canceled. Cancellation itself is not an error.
func runFrontends(ctx context.Context, frontends []core.Frontend, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range frontends {
		g.Go(func() error {
			logger.Info("starting", slog.String("frontend", f.Name()))
			err := f.Start(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("stopped", slog.String("frontend", f.Name()), slog.String("error", err.Error()))
				return err
			}
			return context.Canceled
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
