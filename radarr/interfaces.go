package radarr

import (
	"context"

	"golift.io/starr/radarr"
)

// RadarrAPI defines the Radarr operations used by the favorites export
type RadarrAPI interface {
	// Movie operations
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	AddMovieContext(ctx context.Context, movie *radarr.AddMovieInput) (*radarr.Movie, error)

	// Health check
	Ping() error
}

// ResultFormatter defines the interface for formatting sync output
type ResultFormatter interface {
	FormatSyncResults(summary SyncSummary) string
}
