// Package remoteconfig keeps the provider's image configuration: the base
// URLs and size labels needed to build poster URLs. The value is loaded from
// a local file, refreshed from the provider when it is older than a maximum
// age and falls back to built-in defaults when nothing usable exists.
package remoteconfig

import (
	"context"
	"slices"
	"time"
)

// Default image configuration, used until the provider has been asked once.
const (
	DefaultBaseImageURL       = "http://image.tmdb.org/t/p/"
	DefaultSecureBaseImageURL = "https://image.tmdb.org/t/p/"
	DefaultMaxAgeDays         = 7
)

var (
	defaultPosterSizes  = []string{"w92", "w154", "w185", "w342", "w500", "w780", "original"}
	defaultProfileSizes = []string{"w45", "w185", "h632", "original"}
)

// RemoteConfig is the image configuration published by the provider.
type RemoteConfig struct {
	BaseImageURL       string    `json:"base_image_url"`
	SecureBaseImageURL string    `json:"secure_base_image_url"`
	PosterSizes        []string  `json:"poster_sizes"`
	ProfileSizes       []string  `json:"profile_sizes"`
	LastUpdated        time.Time `json:"last_updated"`
}

// Default returns the built-in configuration. LastUpdated is zero so the
// first refresh always fetches.
func Default() RemoteConfig {
	return RemoteConfig{
		BaseImageURL:       DefaultBaseImageURL,
		SecureBaseImageURL: DefaultSecureBaseImageURL,
		PosterSizes:        slices.Clone(defaultPosterSizes),
		ProfileSizes:       slices.Clone(defaultProfileSizes),
	}
}

// Validate checks that every field needed to build an image URL is set.
func (c RemoteConfig) Validate() error {
	switch {
	case c.BaseImageURL == "":
		return &InvalidError{Field: "base_image_url"}
	case c.SecureBaseImageURL == "":
		return &InvalidError{Field: "secure_base_image_url"}
	case len(c.PosterSizes) == 0:
		return &InvalidError{Field: "poster_sizes"}
	case len(c.ProfileSizes) == 0:
		return &InvalidError{Field: "profile_sizes"}
	}
	return nil
}

// HasPosterSize reports whether the provider publishes the size label.
func (c RemoteConfig) HasPosterSize(size string) bool {
	return slices.Contains(c.PosterSizes, size)
}

// AgeDays is the number of whole days between LastUpdated and now.
func (c RemoteConfig) AgeDays(now time.Time) int {
	return int(now.Sub(c.LastUpdated).Hours() / 24)
}

// Stale reports whether the value should be refreshed. A never-updated value
// is always stale.
func (c RemoteConfig) Stale(now time.Time, maxAgeDays int) bool {
	if c.LastUpdated.IsZero() {
		return true
	}
	return c.AgeDays(now) > maxAgeDays
}

// Fetcher retrieves a fresh configuration from the provider. LastUpdated of
// the result is set by the cache.
type Fetcher interface {
	FetchConfiguration(ctx context.Context) (RemoteConfig, error)
}

// Store persists the configuration between runs.
type Store interface {
	Load() (RemoteConfig, error)
	Save(RemoteConfig) error
}
