// Package core holds the catalog domain model shared by loaders,
// presentation and frontends.
package core

// DefaultLanguage is the language tag used when a request does not name one.
const DefaultLanguage = "en-US"

// Movie is a catalog entry. List pages fill only ID, Title and PosterPath;
// detail responses fill the rest.
type Movie struct {
	ID           int
	Title        string
	PosterPath   string   // empty when the movie has no poster
	Rating       *float64 // vote average, 0-10
	Runtime      *int     // minutes
	Genres       []string
	Overview     string
	BackdropPath string // empty when the movie has no backdrop
}

// PopularCollection is one page of the popular movies list, in server order.
type PopularCollection struct {
	Items      []Movie
	Page       int
	TotalPages int
}

// IsLast reports whether c is the final page.
func (c PopularCollection) IsLast() bool {
	return c.Page >= c.TotalPages
}

// PopularMoviesRequest identifies one page of the popular list.
// It is comparable and can be used as a map key.
type PopularMoviesRequest struct {
	Page     int
	Language string
}

// NewPopularMoviesRequest returns a request for page in DefaultLanguage.
func NewPopularMoviesRequest(page int) PopularMoviesRequest {
	return PopularMoviesRequest{Page: page, Language: DefaultLanguage}
}
