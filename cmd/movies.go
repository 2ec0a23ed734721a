package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/favmovies/filter"
	"github.com/s0up4200/favmovies/remoteconfig"
	"github.com/s0up4200/favmovies/tmdb"
)

var moviesPage int

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:               "genres",
	Short:             "List the movie genres",
	Args:              cobra.NoArgs,
	PersistentPreRunE: initializeOutput,
	RunE:              runGenres,
}

// moviesCmd represents the movies command
var moviesCmd = &cobra.Command{
	Use:   "movies <genre>",
	Short: "List movies of a genre",
	Long: `List one page of movies for a genre. The genre can be given as a TMDB
genre id, a name such as "Action" or an approximate name such as "scifi".

When logged in, favorites are marked and can be used in filters:

  favmovies movies action --filter 'Favorite'
  favmovies movies comedy --filter 'contains(Title, "love") && HasPoster'`,
	Args: cobra.ExactArgs(1),
	RunE: runMovies,
}

func init() {
	moviesCmd.Flags().IntVar(&moviesPage, "page", 1, "page to list")
	moviesCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or name of a saved filter")
}

func runGenres(cmd *cobra.Command, args []string) error {
	if printer.IsJSON() {
		return printer.Output(tmdb.Genres)
	}
	printer.Row("ID", "NAME")
	for _, g := range tmdb.Genres {
		printer.Row(g.ID, g.Name)
	}
	return printer.Flush()
}

// movieRow is a listed movie as shown to the user
type movieRow struct {
	tmdb.Movie
	Favorite  bool   `json:"favorite"`
	PosterURL string `json:"poster_url,omitempty"`
}

type moviesView struct {
	Genre      tmdb.Genre `json:"genre"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Movies     []movieRow `json:"movies"`
}

func runMovies(cmd *cobra.Command, args []string) error {
	if moviesPage < 1 {
		return fmt.Errorf("invalid page %d: must be at least 1", moviesPage)
	}

	genre, err := tmdb.ResolveGenre(args[0])
	if err != nil {
		return err
	}

	f, err := compileFilter()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	page, err := tmdbClient.ListMoviesByGenre(ctx, genre.ID, moviesPage)
	if err != nil {
		return err
	}

	favorites := loadFavoritesIfLoggedIn(ctx)

	movies := page.Movies
	if f != nil {
		movies = filter.Apply(f, movies, favorites, logger)
		logger.Debug().Int("listed", len(page.Movies)).Int("matched", len(movies)).Msg("Applied filter")
	}

	view := moviesView{
		Genre:      genre,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Movies:     buildRows(movies, favorites, imageConfig(ctx)),
	}

	if printer.IsJSON() {
		return printer.Output(view)
	}

	if len(view.Movies) == 0 {
		printer.Empty(fmt.Sprintf("No %s movies found on page %d.", genre.Name, page.Page))
		return nil
	}

	printer.Text("%s (page %d of %d)\n", genre.Name, view.Page, view.TotalPages)
	printMovieRows(view.Movies)
	return printer.Flush()
}

// loadFavoritesIfLoggedIn returns the favorites of the saved session, or nil
// when logged out or when they can't be fetched.
func loadFavoritesIfLoggedIn(ctx context.Context) []tmdb.Movie {
	session, ok := optionalSession()
	if !ok {
		return nil
	}
	favorites, err := tmdbClient.ListFavorites(ctx, session)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to fetch favorites, favorite markers are unavailable")
		return nil
	}
	return favorites
}

func buildRows(movies, favorites []tmdb.Movie, images remoteconfig.RemoteConfig) []movieRow {
	rows := make([]movieRow, 0, len(movies))
	for _, m := range movies {
		row := movieRow{Movie: m, Favorite: tmdb.ContainsMovie(favorites, m.ID)}
		if m.HasPoster() {
			row.PosterURL = tmdb.ImageURL(images, tmdb.PosterSizeRow, m.PosterPath)
		}
		rows = append(rows, row)
	}
	return rows
}

func printMovieRows(rows []movieRow) {
	printer.Row("ID", "TITLE", "FAVORITE")
	for _, r := range rows {
		fav := ""
		if r.Favorite {
			fav = "★"
		}
		printer.Row(r.ID, r.Title, fav)
	}
}
