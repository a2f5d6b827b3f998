package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vadimtrunov/showtime/internal/config"
	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/frontend/tui"
)

// posterConcurrency bounds parallel poster downloads.
const posterConcurrency = 4

// catalog is what the one-shot commands read from. *tmdb.Client satisfies it.
type catalog interface {
	PopularMovies(ctx context.Context, page int, language string) (core.PopularCollection, error)
	MovieDetail(ctx context.Context, id int) (core.Movie, error)
	ImageData(ctx context.Context, path string) ([]byte, error)
	ImageURL(path string) string
}

type popularOptions struct {
	page     int
	language string
	posters  bool
}

func newPopularCmd() *cobra.Command {
	var opts popularOptions
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List popular movies",
		Long:  "Print one page of the TMDb popular movies list.",
		Example: `  showtime popular
  showtime popular --page 2 --language de-DE --posters`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.page < 1 {
				return fmt.Errorf("--page must be at least 1, got %d", opts.page)
			}
			return runPopular(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "language tag such as en-US (default from config)")
	cmd.Flags().BoolVar(&opts.posters, "posters", false, "download posters and show their dimensions")
	return cmd
}

func runPopular(ctx context.Context, w io.Writer, opts popularOptions) error {
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

	ctx, cancel := signal.NotifyContext(config.ContextWithLogger(ctx, logger), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return runFetch(ctx, w, "Loading popular movies...", func(ctx context.Context) (string, error) {
		return fetchPopular(ctx, client, opts)
	})
}

// fetchPopular loads the page and, if asked, its posters.
func fetchPopular(ctx context.Context, c catalog, opts popularOptions) (string, error) {
	collection, err := c.PopularMovies(ctx, opts.page, opts.language)
	if err != nil {
		return "", err
	}

	var posters map[int]tui.Poster
	if opts.posters {
		posters, err = fetchPosters(ctx, c, collection.Items)
		if err != nil {
			return "", err
		}
	}
	return renderPopular(collection, posters), nil
}

// fetchPosters downloads posters concurrently. A poster that fails to load
// or decode is left out; only cancellation fails the whole fetch.
func fetchPosters(ctx context.Context, c catalog, movies []core.Movie) (map[int]tui.Poster, error) {
	logger := config.LoggerFromContext(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(posterConcurrency)

	var mu sync.Mutex
	posters := make(map[int]tui.Poster, len(movies))
	for _, m := range movies {
		if m.PosterPath == "" {
			continue
		}
		g.Go(func() error {
			data, err := c.ImageData(ctx, m.PosterPath)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Debug("poster skipped", slog.Int("movie_id", m.ID), slog.String("error", err.Error()))
				return nil
			}
			p, ok := tui.DecodePoster(data)
			if !ok {
				logger.Debug("poster not decodable", slog.Int("movie_id", m.ID))
				return nil
			}
			mu.Lock()
			posters[m.ID] = p
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load posters: %w", err)
	}
	return posters, nil
}
