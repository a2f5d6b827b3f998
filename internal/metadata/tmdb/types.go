package tmdb

// Wire DTOs. Pointer fields distinguish absent keys from zero values so the
// mappers can reject bodies missing required fields.

// popularMoviesResponse is the paged envelope of /3/movie/popular.
type popularMoviesResponse struct {
	Page       *int                `json:"page"`
	TotalPages *int                `json:"total_pages"`
	Results    *[]popularMovieItem `json:"results"`
}

// popularMovieItem is one entry of the popular list.
type popularMovieItem struct {
	ID         *int    `json:"id"`
	Title      *string `json:"title"`
	PosterPath *string `json:"poster_path"`
}

// movieDetailResponse is the body of /3/movie/{id}.
type movieDetailResponse struct {
	ID           *int     `json:"id"`
	Title        *string  `json:"title"`
	Overview     *string  `json:"overview"`
	PosterPath   *string  `json:"poster_path"`
	BackdropPath *string  `json:"backdrop_path"`
	Runtime      *int     `json:"runtime"`
	Genres       []genre  `json:"genres"`
	VoteAverage  *float64 `json:"vote_average"`
}

// genre is a TMDb genre object; only the name is kept.
type genre struct {
	Name *string `json:"name"`
}
