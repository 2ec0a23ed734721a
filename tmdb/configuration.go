package tmdb

import (
	"context"
	"fmt"
	"net/http"

	"github.com/s0up4200/favmovies/remoteconfig"
)

// imagesConfig mirrors the "images" object of /configuration.
type imagesConfig struct {
	BaseURL       *string  `json:"base_url"`
	SecureBaseURL *string  `json:"secure_base_url"`
	PosterSizes   []string `json:"poster_sizes"`
	ProfileSizes  []string `json:"profile_sizes"`
}

// FetchConfiguration retrieves the image configuration. Every field is
// required; LastUpdated is left for the cache to set.
func (c *Client) FetchConfiguration(ctx context.Context) (remoteconfig.RemoteConfig, error) {
	p, err := c.doJSON(ctx, http.MethodGet, "/configuration", nil, nil)
	if err != nil {
		return remoteconfig.RemoteConfig{}, fmt.Errorf("failed to get configuration: %w", err)
	}
	if err := InterpretRead(p); err != nil {
		return remoteconfig.RemoteConfig{}, fmt.Errorf("failed to get configuration: %w", err)
	}

	var images imagesConfig
	if err := p.Decode(KeyImages, &images); err != nil {
		return remoteconfig.RemoteConfig{}, err
	}

	switch {
	case images.BaseURL == nil || *images.BaseURL == "":
		return remoteconfig.RemoteConfig{}, &MissingFieldError{Name: KeyImages + ".base_url"}
	case images.SecureBaseURL == nil || *images.SecureBaseURL == "":
		return remoteconfig.RemoteConfig{}, &MissingFieldError{Name: KeyImages + ".secure_base_url"}
	case len(images.PosterSizes) == 0:
		return remoteconfig.RemoteConfig{}, &MissingFieldError{Name: KeyImages + ".poster_sizes"}
	case len(images.ProfileSizes) == 0:
		return remoteconfig.RemoteConfig{}, &MissingFieldError{Name: KeyImages + ".profile_sizes"}
	}

	c.logger.Debug().
		Str("secure_base_url", *images.SecureBaseURL).
		Strs("poster_sizes", images.PosterSizes).
		Msg("Retrieved configuration")

	return remoteconfig.RemoteConfig{
		BaseImageURL:       *images.BaseURL,
		SecureBaseImageURL: *images.SecureBaseURL,
		PosterSizes:        images.PosterSizes,
		ProfileSizes:       images.ProfileSizes,
	}, nil
}
