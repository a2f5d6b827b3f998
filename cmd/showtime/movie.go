package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/showtime/internal/config"
)

func newMovieCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "movie <tmdb-id>",
		Short:   "Show details of a movie",
		Example: `  showtime movie 550`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return runMovie(cmd.Context(), cmd.OutOrStdout(), id)
		},
	}
}

func parseMovieID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q: must be a positive number", s)
	}
	return id, nil
}

func runMovie(ctx context.Context, w io.Writer, id int) error {
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

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return runFetch(ctx, w, "Loading movie...", func(ctx context.Context) (string, error) {
		return fetchMovie(ctx, client, id)
	})
}

func fetchMovie(ctx context.Context, c catalog, id int) (string, error) {
	movie, err := c.MovieDetail(ctx, id)
	if err != nil {
		return "", err
	}
	return renderMovie(movie, c.ImageURL), nil
}
