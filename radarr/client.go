package radarr

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

const defaultCacheTTL = 5 * time.Minute

// Client wraps the starr Radarr client with additional functionality
type Client struct {
	api    RadarrAPI
	logger zerolog.Logger

	// library maps TMDB ids to Radarr movie ids
	mu        sync.Mutex
	library   map[int64]int64
	fetchedAt time.Time
	cacheTTL  time.Duration
}

// NewClient creates a new Radarr client
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	config := starr.New(apiKey, url, 30*time.Second)
	radarrClient := radarr.New(config)

	// Test the connection
	if err := radarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(radarrClient, logger), nil
}

// NewClientWithAPI creates a client on top of an existing API implementation
func NewClientWithAPI(api RadarrAPI, logger zerolog.Logger) *Client {
	return &Client{
		api:      api,
		logger:   logger,
		cacheTTL: defaultCacheTTL,
	}
}

// Library returns a snapshot of the TMDB ids present in Radarr, keyed to
// their Radarr ids. The underlying index is cached for cacheTTL.
func (c *Client) Library(ctx context.Context) (map[int64]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.library != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return maps.Clone(c.library), nil
	}

	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	library := make(map[int64]int64, len(movies))
	for _, m := range movies {
		if m == nil || m.TmdbID == 0 {
			continue
		}
		library[m.TmdbID] = m.ID
	}
	c.library = library
	c.fetchedAt = time.Now()

	c.logger.Debug().Msgf("Retrieved %d movies from Radarr", len(movies))
	return maps.Clone(library), nil
}

// AddMovie adds a movie by TMDB id
func (c *Client) AddMovie(ctx context.Context, input *radarr.AddMovieInput) (int64, error) {
	added, err := c.api.AddMovieContext(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("failed to add movie %q (TMDB %d): %w", input.Title, input.TmdbID, err)
	}
	if added == nil {
		return 0, fmt.Errorf("failed to add movie %q (TMDB %d): empty response", input.Title, input.TmdbID)
	}

	c.mu.Lock()
	if c.library != nil {
		c.library[input.TmdbID] = added.ID
	}
	c.mu.Unlock()

	c.logger.Info().
		Int64("tmdb_id", input.TmdbID).
		Int64("radarr_id", added.ID).
		Str("title", input.Title).
		Msg("Successfully added movie")
	return added.ID, nil
}
