package remoteconfig

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Cache holds the current configuration. Readers always observe either the
// previous or the refreshed value, never a mix of both.
type Cache struct {
	current atomic.Pointer[RemoteConfig]
	fetcher Fetcher
	store   Store
	logger  zerolog.Logger
	now     func() time.Time

	// refreshMu serializes refreshes; reads don't take it.
	refreshMu sync.Mutex
}

// New creates a cache seeded from store. A missing or unreadable stored value
// is replaced by Default. store may be nil for an in-memory cache.
func New(fetcher Fetcher, store Store, logger zerolog.Logger) *Cache {
	c := &Cache{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}

	cfg := Default()
	if store != nil {
		loaded, err := store.Load()
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, ErrNotFound):
			logger.Debug().Msg("No stored remote configuration, using defaults")
		default:
			logger.Warn().Err(err).Msg("Ignoring stored remote configuration, using defaults")
		}
	}
	c.current.Store(&cfg)
	return c
}

// Get returns the current configuration.
func (c *Cache) Get() RemoteConfig {
	return *c.current.Load()
}

// RefreshIfStale fetches a new configuration when the current one was never
// updated or is older than maxAgeDays whole days. It reports whether a new
// value was installed. A failed fetch leaves the current value untouched.
// A *PersistError means the new value is live but was not saved.
func (c *Cache) RefreshIfStale(ctx context.Context, maxAgeDays int) (bool, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	now := c.now()
	cur := c.Get()
	if !cur.Stale(now, maxAgeDays) {
		c.logger.Debug().
			Int("age_days", cur.AgeDays(now)).
			Int("max_age_days", maxAgeDays).
			Msg("Remote configuration is fresh")
		return false, nil
	}
	return c.refresh(ctx, now)
}

// Refresh fetches a new configuration regardless of its age.
func (c *Cache) Refresh(ctx context.Context) (bool, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refresh(ctx, c.now())
}

func (c *Cache) refresh(ctx context.Context, now time.Time) (bool, error) {
	if c.fetcher == nil {
		return false, fmt.Errorf("remote configuration refresh: no fetcher configured")
	}

	fresh, err := c.fetcher.FetchConfiguration(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to fetch remote configuration: %w", err)
	}
	if err := fresh.Validate(); err != nil {
		return false, err
	}
	fresh.LastUpdated = now
	c.current.Store(&fresh)

	c.logger.Info().
		Str("base_url", fresh.SecureBaseImageURL).
		Int("poster_sizes", len(fresh.PosterSizes)).
		Msg("Remote configuration refreshed")

	if c.store != nil {
		if err := c.store.Save(fresh); err != nil {
			return true, &PersistError{Err: err}
		}
	}
	return true, nil
}
