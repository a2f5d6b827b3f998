package httpclient

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/vadimtrunov/showtime/internal/task"
)

const apiKeyParam = "api_key"

// Authenticated signs every request with an api_key query parameter.
//
// Signing fails open: when the request URL is missing or its query cannot be
// parsed, the original request is forwarded unsigned and a warning is logged.
type Authenticated struct {
	client Client
	apiKey string
	logger *slog.Logger
}

var _ Client = (*Authenticated)(nil)

// NewAuthenticated wraps client with API key signing.
func NewAuthenticated(client Client, apiKey string, logger *slog.Logger) *Authenticated {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticated{client: client, apiKey: apiKey, logger: logger}
}

// Do signs req and delegates to the wrapped client. The caller's request is
// never mutated.
func (a *Authenticated) Do(req *http.Request, completion func(Response, error)) task.Task {
	return a.client.Do(a.sign(req), completion)
}

func (a *Authenticated) sign(req *http.Request) *http.Request {
	if req.URL == nil {
		a.logger.Warn("forwarding unsigned request: missing URL")
		return req
	}

	u, err := url.Parse(req.URL.String())
	if err != nil {
		a.logger.Warn("forwarding unsigned request: unparsable URL", slog.String("error", err.Error()))
		return req
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		a.logger.Warn("forwarding unsigned request: unparsable query",
			slog.String("url", RedactURL(u)),
			slog.String("error", err.Error()),
		)
		return req
	}

	q.Add(apiKeyParam, a.apiKey)
	u.RawQuery = q.Encode()

	signed := req.Clone(req.Context())
	signed.URL = u
	return signed
}
