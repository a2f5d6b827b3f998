package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/vadimtrunov/showtime/internal/task"
)

// ErrTransport reports a failed HTTP exchange: connectivity problems,
// cancelled waits, unreadable or malformed responses.
var ErrTransport = errors.New("transport error")

// Response is the raw outcome of a completed HTTP exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client issues one HTTP request asynchronously.
//
// The completion runs exactly once with either a Response or an error,
// unless the returned task is cancelled first, in which case it never runs.
type Client interface {
	Do(req *http.Request, completion func(Response, error)) task.Task
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(req *http.Request, completion func(Response, error)) task.Task

// Do calls f.
func (f ClientFunc) Do(req *http.Request, completion func(Response, error)) task.Task {
	return f(req, completion)
}

// Config holds transport configuration.
type Config struct {
	Timeout time.Duration
	// MaxBodyBytes caps a response body. A longer body fails with ErrTransport.
	MaxBodyBytes int64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxBodyBytes: 10 << 20,
	}
}

// HTTP is a Client backed by net/http.
type HTTP struct {
	http   *http.Client
	config Config
	logger *slog.Logger
}

var _ Client = (*HTTP)(nil)

// New creates an HTTP client with a default http.Client.
func New(cfg Config, logger *slog.Logger) *HTTP {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWithHTTPClient creates an HTTP client around a custom http.Client
// (e.g. one with a test transport).
func NewWithHTTPClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *HTTP {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	return &HTTP{
		http:   httpClient,
		config: cfg,
		logger: logger,
	}
}

// Do starts the request on its own goroutine. Cancelling the returned task
// aborts the request through its context and suppresses the completion.
func (c *HTTP) Do(req *http.Request, completion func(Response, error)) task.Task {
	ctx, cancel := context.WithCancel(req.Context())
	h := task.NewHandle(completion)
	h.Wrap(task.Func(cancel))

	go func() {
		defer cancel()
		resp, err := c.roundTrip(req.WithContext(ctx))
		if !h.Complete(resp, err) {
			c.logger.Debug("dropped cancelled response", slog.String("url", RedactURL(req.URL)))
		}
	}()
	return h
}

func (c *HTTP) roundTrip(req *http.Request) (Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes+1))
	if err != nil {
		return Response{}, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}
	if int64(len(body)) > c.config.MaxBodyBytes {
		return Response{}, fmt.Errorf("%w: body exceeds %d bytes", ErrTransport, c.config.MaxBodyBytes)
	}

	c.logger.Debug("http request completed",
		slog.String("method", req.Method),
		slog.String("url", RedactURL(req.URL)),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.String("elapsed", time.Since(start).String()),
	)

	return Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// RedactURL strips credentials, the api_key parameter and the fragment from
// a URL for safe logging.
func RedactURL(u *url.URL) string {
	if u == nil {
		return "<nil>"
	}
	clean := *u
	clean.User = nil
	clean.Fragment = ""
	if q, err := url.ParseQuery(clean.RawQuery); err == nil {
		if q.Has(apiKeyParam) {
			q.Set(apiKeyParam, "REDACTED")
		}
		clean.RawQuery = q.Encode()
	} else {
		clean.RawQuery = ""
	}
	return clean.String()
}
