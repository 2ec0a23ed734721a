package tmdb

import (
	"context"
	"fmt"
	"net/http"
)

// Movie is a list entry. Two movies are the same movie when their ids match.
type Movie struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path,omitempty"`
}

// Equal compares movies by id only.
func (m Movie) Equal(other Movie) bool {
	return m.ID == other.ID
}

// HasPoster reports whether the movie has a poster to fetch.
func (m Movie) HasPoster() bool {
	return m.PosterPath != ""
}

// MoviePage is one page of a paginated movie listing.
type MoviePage struct {
	Page       int
	TotalPages int
	Movies     []Movie
}

// HasMorePages checks if there are pages after this one
func (p MoviePage) HasMorePages() bool {
	return p.Page < p.TotalPages
}

// movieRecord mirrors a raw list entry; pointers let missing keys be told
// apart from zero values.
type movieRecord struct {
	ID         *int    `json:"id"`
	Title      *string `json:"title"`
	PosterPath *string `json:"poster_path"`
}

// moviesFromPayload decodes the "results" array. Every entry needs an id and
// a title; the poster path is optional.
func moviesFromPayload(p Payload) ([]Movie, error) {
	var records []movieRecord
	if err := p.Decode(KeyResults, &records); err != nil {
		return nil, err
	}

	movies := make([]Movie, 0, len(records))
	for i, r := range records {
		if r.ID == nil {
			return nil, &MissingFieldError{Name: fmt.Sprintf("%s[%d].%s", KeyResults, i, KeyID)}
		}
		if r.Title == nil {
			return nil, &MissingFieldError{Name: fmt.Sprintf("%s[%d].title", KeyResults, i)}
		}
		m := Movie{ID: *r.ID, Title: *r.Title}
		if r.PosterPath != nil {
			m.PosterPath = *r.PosterPath
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func moviePageFromPayload(p Payload) (MoviePage, error) {
	movies, err := moviesFromPayload(p)
	if err != nil {
		return MoviePage{}, err
	}
	page := MoviePage{Page: 1, TotalPages: 1, Movies: movies}
	if p.Has(KeyPage) {
		if page.Page, err = p.Int(KeyPage); err != nil {
			return MoviePage{}, err
		}
	}
	if p.Has(KeyTotalPages) {
		if page.TotalPages, err = p.Int(KeyTotalPages); err != nil {
			return MoviePage{}, err
		}
	}
	return page, nil
}

// ListMoviesByGenre returns one page of movies for a genre. Page 0 means the
// first page.
func (c *Client) ListMoviesByGenre(ctx context.Context, genreID, page int) (MoviePage, error) {
	params := Params{}
	if page > 0 {
		params[ParamPage] = page
	}

	p, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/genre/%d/movies", genreID), params, nil)
	if err != nil {
		return MoviePage{}, fmt.Errorf("failed to list movies for genre %d: %w", genreID, err)
	}
	if err := InterpretRead(p); err != nil {
		return MoviePage{}, fmt.Errorf("failed to list movies for genre %d: %w", genreID, err)
	}

	result, err := moviePageFromPayload(p)
	if err != nil {
		return MoviePage{}, fmt.Errorf("failed to list movies for genre %d: %w", genreID, err)
	}

	c.logger.Debug().
		Int("genre", genreID).
		Int("page", result.Page).
		Int("count", len(result.Movies)).
		Msg("Retrieved movies by genre")
	return result, nil
}
