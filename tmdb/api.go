package tmdb

import (
	"context"

	"github.com/s0up4200/favmovies/remoteconfig"
)

// API defines the TMDB operations used by the command line
type API interface {
	// Login runs the session handshake
	Login(ctx context.Context, creds Credentials) (Session, error)

	// Logout deletes a session
	Logout(ctx context.Context, session Session) error

	// ListMoviesByGenre retrieves one page of a genre listing
	ListMoviesByGenre(ctx context.Context, genreID, page int) (MoviePage, error)

	FavoritesAPI

	// FetchPosters downloads posters for a list of movies
	FetchPosters(ctx context.Context, cfg remoteconfig.RemoteConfig, size string, movies []Movie, concurrency int) []PosterResult

	remoteconfig.Fetcher
}

// FavoritesAPI covers the account favorites list
type FavoritesAPI interface {
	// ListFavorites retrieves every favorite movie
	ListFavorites(ctx context.Context, session Session) ([]Movie, error)

	// IsFavorite checks a single movie against the favorites list
	IsFavorite(ctx context.Context, session Session, movieID int) (bool, error)

	// ToggleFavorite marks or unmarks a movie
	ToggleFavorite(ctx context.Context, session Session, movieID int, desired bool) (bool, error)
}

var _ API = (*Client)(nil)
