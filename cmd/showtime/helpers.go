package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/vadimtrunov/showtime/internal/config"
	"github.com/vadimtrunov/showtime/internal/httpclient"
	"github.com/vadimtrunov/showtime/internal/metadata/tmdb"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)
)

// loadConfig loads and validates the configuration file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// initCatalog builds the TMDb client over the transport chain
// HTTP -> Instrumented -> RateLimited -> Authenticated. Image requests share
// the limiter and metrics but are not signed. reg may be nil.
func initCatalog(cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger) (*tmdb.Client, error) {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.HTTP.Timeout

	metrics := httpclient.NewMetrics(reg)
	limiter := newLimiter(cfg.HTTP)

	transport := httpclient.NewRateLimited(
		httpclient.NewInstrumented(httpclient.New(httpCfg, logger), metrics),
		limiter,
	)
	api := httpclient.NewAuthenticated(transport, cfg.TMDb.APIKey, logger)

	client, err := tmdb.New(tmdb.Config{
		BaseURL:      cfg.TMDb.BaseURL,
		ImageBaseURL: cfg.TMDb.ImageBaseURL,
		Language:     cfg.TMDb.Language,
	}, api, transport, logger)
	if err != nil {
		return nil, fmt.Errorf("create TMDb client: %w", err)
	}

	logger.Debug("TMDb client initialized",
		slog.String("url", sanitizeURL(cfg.TMDb.BaseURL)),
		slog.String("language", client.Language()),
	)
	return client, nil
}

// newLimiter returns a token bucket for the configured rate. A zero rate
// disables limiting.
func newLimiter(cfg config.HTTPConfig) *rate.Limiter {
	if cfg.Limit() <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := max(cfg.Burst, 1)
	return rate.NewLimiter(rate.Limit(cfg.Limit()), burst)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
