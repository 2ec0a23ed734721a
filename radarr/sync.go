package radarr

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golift.io/starr/radarr"

	"github.com/s0up4200/favmovies/tmdb"
)

// DefaultConcurrency bounds parallel add requests
const DefaultConcurrency = 5

// SyncOptions controls how favorites are added
type SyncOptions struct {
	QualityProfileID int64
	RootFolder       string
	Monitored        bool
	Search           bool
	DryRun           bool
	Concurrency      int
}

// SyncAction is what happened to one favorite
type SyncAction string

const (
	ActionAdded    SyncAction = "added"
	ActionExists   SyncAction = "exists"
	ActionWouldAdd SyncAction = "would_add"
	ActionFailed   SyncAction = "failed"
)

// SyncResult is the outcome for one favorite
type SyncResult struct {
	Movie    tmdb.Movie `json:"movie"`
	Action   SyncAction `json:"action"`
	RadarrID int64      `json:"radarr_id,omitempty"`
	Err      error      `json:"-"`
	Error    string     `json:"error,omitempty"`
}

// SyncSummary contains the results of a sync, in favorites order
type SyncSummary struct {
	Results []SyncResult `json:"results"`
	Added   int          `json:"added"`
	Exists  int          `json:"exists"`
	Planned int          `json:"planned"`
	Failed  int          `json:"failed"`
}

// SyncFavorites adds every favorite that Radarr does not know yet. Individual
// failures are reported per movie and never stop the batch.
func (c *Client) SyncFavorites(ctx context.Context, favorites []tmdb.Movie, opts SyncOptions) (SyncSummary, error) {
	if !opts.DryRun {
		if opts.QualityProfileID <= 0 {
			return SyncSummary{}, fmt.Errorf("%w: quality profile id is required", ErrInvalidSyncOptions)
		}
		if opts.RootFolder == "" {
			return SyncSummary{}, fmt.Errorf("%w: root folder is required", ErrInvalidSyncOptions)
		}
	}

	library, err := c.Library(ctx)
	if err != nil {
		return SyncSummary{}, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]SyncResult, len(favorites))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, movie := range favorites {
		results[i].Movie = movie

		if id, ok := library[int64(movie.ID)]; ok {
			results[i].Action = ActionExists
			results[i].RadarrID = id
			continue
		}
		if opts.DryRun {
			results[i].Action = ActionWouldAdd
			continue
		}

		g.Go(func() error {
			id, err := c.AddMovie(gctx, &radarr.AddMovieInput{
				Title:            movie.Title,
				TmdbID:           int64(movie.ID),
				QualityProfileID: opts.QualityProfileID,
				RootFolderPath:   opts.RootFolder,
				Monitored:        opts.Monitored,
				AddOptions:       &radarr.AddMovieOptions{SearchForMovie: opts.Search},
			})
			if err != nil {
				c.logger.Warn().
					Err(err).
					Int("tmdb_id", movie.ID).
					Str("movie", movie.Title).
					Msg("Failed to add movie")
				results[i].Action = ActionFailed
				results[i].Err = err
				results[i].Error = err.Error()
				// Continue with the other favorites
				return nil
			}
			results[i].Action = ActionAdded
			results[i].RadarrID = id
			return nil
		})
	}

	_ = g.Wait()

	summary := SyncSummary{Results: results}
	for _, r := range results {
		switch r.Action {
		case ActionAdded:
			summary.Added++
		case ActionExists:
			summary.Exists++
		case ActionWouldAdd:
			summary.Planned++
		case ActionFailed:
			summary.Failed++
		}
	}
	return summary, nil
}
