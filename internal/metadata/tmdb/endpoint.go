package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vadimtrunov/showtime/internal/core"
)

const (
	// DefaultBaseURL is the TMDb API host. Paths are appended under /3.
	DefaultBaseURL = "https://api.themoviedb.org"

	// DefaultImageBaseURL serves w500 renditions of posters and backdrops.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500/"

	apiVersion = "3"
)

// Endpoint builds TMDb API URLs and requests against a base URL.
type Endpoint struct {
	base *url.URL
}

// NewEndpoint parses baseURL. An empty baseURL selects DefaultBaseURL.
func NewEndpoint(baseURL string) (*Endpoint, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	return &Endpoint{base: u}, nil
}

// PopularMoviesURL returns {base}/3/movie/popular?language=&page=.
func (e *Endpoint) PopularMoviesURL(req core.PopularMoviesRequest) *url.URL {
	u := e.base.JoinPath(apiVersion, "movie", "popular")
	language := req.Language
	if language == "" {
		language = core.DefaultLanguage
	}
	u.RawQuery = url.Values{
		"language": {language},
		"page":     {strconv.Itoa(req.Page)},
	}.Encode()
	return u
}

// MovieDetailURL returns {base}/3/movie/{id}.
func (e *Endpoint) MovieDetailURL(id int) *url.URL {
	return e.base.JoinPath(apiVersion, "movie", strconv.Itoa(id))
}

// PopularMoviesRequest builds the GET request for one page of popular movies.
func (e *Endpoint) PopularMoviesRequest(req core.PopularMoviesRequest) (*http.Request, error) {
	if req.Page < 1 {
		return nil, fmt.Errorf("invalid page %d", req.Page)
	}
	return newGetRequest(e.PopularMoviesURL(req).String(), "application/json")
}

// MovieDetailRequest builds the GET request for a single movie.
func (e *Endpoint) MovieDetailRequest(id int) (*http.Request, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid movie id %d", id)
	}
	return newGetRequest(e.MovieDetailURL(id).String(), "application/json")
}

// ImageRequest builds a GET request for an absolute image URL.
func ImageRequest(imageURL string) (*http.Request, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("empty image URL")
	}
	return newGetRequest(imageURL, "image/*")
}

// ImageURL joins an image base URL and a poster or backdrop path.
// Returns "" when path is empty.
func ImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	if base == "" {
		base = DefaultImageBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func newGetRequest(rawURL, accept string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	return req, nil
}
