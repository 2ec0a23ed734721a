package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/favmovies/filter"
)

// favoritesCmd represents the favorites command
var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage the favorites of your TMDB account",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your favorite movies",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <movie-id>",
	Short: "Mark a movie as favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFavoriteToggle(cmd, args[0], true)
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <movie-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a movie from your favorites",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFavoriteToggle(cmd, args[0], false)
	},
}

var favoritesStatusCmd = &cobra.Command{
	Use:   "status <movie-id>",
	Short: "Check whether a movie is a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoriteStatus,
}

func init() {
	favoritesListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or name of a saved filter")

	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesStatusCmd)
}

type favoriteState struct {
	MovieID  int  `json:"movie_id"`
	Favorite bool `json:"favorite"`
}

// parseMovieID parses a TMDB movie id argument
func parseMovieID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q: must be a positive integer", arg)
	}
	return id, nil
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	f, err := compileFilter()
	if err != nil {
		return err
	}

	session, err := requireSession()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	favorites, err := tmdbClient.ListFavorites(ctx, session)
	if err != nil {
		return err
	}

	movies := favorites
	if f != nil {
		movies = filter.Apply(f, favorites, favorites, logger)
	}
	rows := buildRows(movies, favorites, imageConfig(ctx))

	if printer.IsJSON() {
		return printer.Output(rows)
	}
	if len(rows) == 0 {
		printer.Empty("No favorite movies found.")
		return nil
	}

	movieText := "movie"
	if len(rows) != 1 {
		movieText = "movies"
	}
	printer.Text("%d favorite %s:\n", len(rows), movieText)
	printer.Row("ID", "TITLE")
	for _, r := range rows {
		printer.Row(r.ID, r.Title)
	}
	return printer.Flush()
}

func runFavoriteToggle(cmd *cobra.Command, arg string, desired bool) error {
	movieID, err := parseMovieID(arg)
	if err != nil {
		return err
	}

	session, err := requireSession()
	if err != nil {
		return err
	}

	state, err := tmdbClient.ToggleFavorite(cmd.Context(), session, movieID, desired)
	if err != nil {
		return err
	}

	if printer.IsJSON() {
		return printer.Output(favoriteState{MovieID: movieID, Favorite: state})
	}
	if state {
		printer.Text("★ Added movie %d to favorites", movieID)
	} else {
		printer.Text("☆ Removed movie %d from favorites", movieID)
	}
	return nil
}

func runFavoriteStatus(cmd *cobra.Command, args []string) error {
	movieID, err := parseMovieID(args[0])
	if err != nil {
		return err
	}

	session, err := requireSession()
	if err != nil {
		return err
	}

	fav, err := tmdbClient.IsFavorite(cmd.Context(), session, movieID)
	if err != nil {
		return err
	}

	if printer.IsJSON() {
		return printer.Output(favoriteState{MovieID: movieID, Favorite: fav})
	}
	if fav {
		printer.Text("★ Movie %d is a favorite", movieID)
	} else {
		printer.Text("☆ Movie %d is not a favorite", movieID)
	}
	return nil
}
