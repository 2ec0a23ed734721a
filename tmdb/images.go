package tmdb

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/favmovies/remoteconfig"
)

// Poster size labels used by the listing and detail views.
const (
	PosterSizeRow    = "w154"
	PosterSizeDetail = "w342"
)

// DefaultPosterConcurrency bounds parallel poster downloads.
const DefaultPosterConcurrency = 4

// ImageURL joins the secure base URL, the size label and the poster path.
func ImageURL(cfg remoteconfig.RemoteConfig, size, posterPath string) string {
	base := cfg.SecureBaseImageURL
	if base == "" {
		base = cfg.BaseImageURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.Trim(size, "/") + "/" + strings.TrimLeft(posterPath, "/")
}

// FetchImage downloads raw image bytes. The body is validated for status and
// emptiness only.
func (c *Client) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	data, err := c.doRaw(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	return data, nil
}

// PosterResult is the outcome of one poster download. Exactly one of Data and
// Err is set unless the movie has no poster, in which case both are empty.
type PosterResult struct {
	Movie Movie
	URL   string
	Data  []byte
	Err   error
}

// FetchPosters downloads the posters of movies concurrently. Results keep the
// order of movies; a failed download only affects its own row.
func (c *Client) FetchPosters(ctx context.Context, cfg remoteconfig.RemoteConfig, size string, movies []Movie, concurrency int) []PosterResult {
	if concurrency <= 0 {
		concurrency = DefaultPosterConcurrency
	}

	results := make([]PosterResult, len(movies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, movie := range movies {
		results[i].Movie = movie
		if !movie.HasPoster() {
			continue
		}
		results[i].URL = ImageURL(cfg, size, movie.PosterPath)

		g.Go(func() error {
			data, err := c.FetchImage(gctx, results[i].URL)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Int("movie_id", movie.ID).
					Str("title", movie.Title).
					Msg("Failed to fetch poster")
				results[i].Err = err
				return nil
			}
			results[i].Data = data
			return nil
		})
	}

	_ = g.Wait()

	c.logger.Debug().Int("count", len(movies)).Str("size", size).Msg("Fetched posters")
	return results
}
