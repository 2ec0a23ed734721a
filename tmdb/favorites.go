package tmdb

import (
	"context"
	"fmt"
	"net/http"
)

// maxFavoritePages bounds pagination against a misbehaving total_pages.
const maxFavoritePages = 500

// favoriteRequest is the JSON body of the favorite mutation.
type favoriteRequest struct {
	MediaType string `json:"media_type"`
	MediaID   int    `json:"media_id"`
	Favorite  bool   `json:"favorite"`
}

// ListFavorites returns every favorite movie of the session's account,
// following pagination to the last page.
func (c *Client) ListFavorites(ctx context.Context, session Session) ([]Movie, error) {
	if !session.Valid() {
		return nil, ErrNoSession
	}

	var all []Movie
	path := fmt.Sprintf("/account/%d/favorite/movies", session.AccountID)

	for page := 1; page <= maxFavoritePages; page++ {
		params := Params{ParamSessionID: session.ID, ParamPage: page}

		p, err := c.doJSON(ctx, http.MethodGet, path, params, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get favorites: %w", err)
		}
		if err := InterpretRead(p); err != nil {
			return nil, fmt.Errorf("failed to get favorites: %w", err)
		}
		result, err := moviePageFromPayload(p)
		if err != nil {
			return nil, fmt.Errorf("failed to parse favorites: %w", err)
		}
		all = append(all, result.Movies...)

		c.logger.Debug().
			Int("page", page).
			Int("count", len(result.Movies)).
			Int("total", len(all)).
			Msg("Retrieved favorite movies")

		if !result.HasMorePages() {
			break
		}
	}

	return all, nil
}

// IsFavorite derives the favorite state of a movie from a freshly fetched
// favorites list. The state is never cached.
func (c *Client) IsFavorite(ctx context.Context, session Session, movieID int) (bool, error) {
	favorites, err := c.ListFavorites(ctx, session)
	if err != nil {
		return false, err
	}
	return ContainsMovie(favorites, movieID), nil
}

// ContainsMovie reports whether movies holds a movie with the given id.
func ContainsMovie(movies []Movie, movieID int) bool {
	for _, m := range movies {
		if m.ID == movieID {
			return true
		}
	}
	return false
}

// ToggleFavorite marks or unmarks a movie as favorite and returns the new
// state. On error the returned state is meaningless and the caller keeps its
// previous one.
func (c *Client) ToggleFavorite(ctx context.Context, session Session, movieID int, desired bool) (bool, error) {
	if !session.Valid() {
		return false, ErrNoSession
	}

	body := favoriteRequest{MediaType: "movie", MediaID: movieID, Favorite: desired}
	path := fmt.Sprintf("/account/%d/favorite", session.AccountID)

	p, err := c.doJSON(ctx, http.MethodPost, path, Params{ParamSessionID: session.ID}, body)
	if err != nil {
		return false, fmt.Errorf("failed to set favorite for movie %d: %w", movieID, err)
	}

	expected := FavoriteOffCodes
	if desired {
		expected = FavoriteOnCodes
	}
	code, err := InterpretWrite(p, expected)
	if err != nil {
		return false, fmt.Errorf("failed to set favorite for movie %d: %w", movieID, err)
	}

	c.logger.Info().
		Int("movie_id", movieID).
		Bool("favorite", desired).
		Int("status_code", code).
		Msg("Updated favorite")
	return desired, nil
}
