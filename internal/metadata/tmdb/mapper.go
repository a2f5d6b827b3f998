package tmdb

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vadimtrunov/showtime/internal/core"
)

const maxVoteAverage = 10

// MapPopularMovies turns a popular-list response into a PopularCollection.
// Any status other than 200, or a body that fails validation, yields
// core.ErrInvalidData.
func MapPopularMovies(body []byte, status int) (core.PopularCollection, error) {
	if status != http.StatusOK {
		return core.PopularCollection{}, invalidStatus(status)
	}

	var resp popularMoviesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.PopularCollection{}, invalid("decode popular movies: %v", err)
	}
	if resp.Page == nil || resp.TotalPages == nil || resp.Results == nil {
		return core.PopularCollection{}, invalid("popular movies: missing page, total_pages or results")
	}

	page, total := *resp.Page, *resp.TotalPages
	if page < 1 || total < 0 || (total > 0 && page > total) {
		return core.PopularCollection{}, invalid("popular movies: page %d out of range 1..%d", page, total)
	}

	items := make([]core.Movie, 0, len(*resp.Results))
	for i, item := range *resp.Results {
		if item.ID == nil || item.Title == nil {
			return core.PopularCollection{}, invalid("popular movies: result %d missing id or title", i)
		}
		items = append(items, core.Movie{
			ID:         *item.ID,
			Title:      *item.Title,
			PosterPath: deref(item.PosterPath),
		})
	}

	return core.PopularCollection{
		Items:      items,
		Page:       page,
		TotalPages: total,
	}, nil
}

// MapMovieDetail turns a movie detail response into a Movie.
func MapMovieDetail(body []byte, status int) (core.Movie, error) {
	if status != http.StatusOK {
		return core.Movie{}, invalidStatus(status)
	}

	var resp movieDetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.Movie{}, invalid("decode movie detail: %v", err)
	}
	if resp.ID == nil || resp.Title == nil || resp.Overview == nil || resp.VoteAverage == nil {
		return core.Movie{}, invalid("movie detail: missing id, title, overview or vote_average")
	}
	if v := *resp.VoteAverage; v < 0 || v > maxVoteAverage {
		return core.Movie{}, invalid("movie detail: vote_average %v out of range", v)
	}

	genres := make([]string, 0, len(resp.Genres))
	for i, g := range resp.Genres {
		if g.Name == nil {
			return core.Movie{}, invalid("movie detail: genre %d missing name", i)
		}
		genres = append(genres, *g.Name)
	}

	rating := *resp.VoteAverage
	return core.Movie{
		ID:           *resp.ID,
		Title:        *resp.Title,
		PosterPath:   deref(resp.PosterPath),
		Rating:       &rating,
		Runtime:      resp.Runtime,
		Genres:       genres,
		Overview:     *resp.Overview,
		BackdropPath: deref(resp.BackdropPath),
	}, nil
}

// MapImageData accepts a 200 response with a non-empty body.
func MapImageData(body []byte, status int) ([]byte, error) {
	if status != http.StatusOK {
		return nil, invalidStatus(status)
	}
	if len(body) == 0 {
		return nil, invalid("image: empty body")
	}
	return body, nil
}

func invalidStatus(status int) error {
	return fmt.Errorf("%w: unexpected status %d", core.ErrInvalidData, status)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrInvalidData, fmt.Sprintf(format, args...))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
