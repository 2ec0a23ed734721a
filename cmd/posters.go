package cmd

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/favmovies/tmdb"
)

var (
	postersFavorites bool
	postersDir       string
	postersSize      string
	postersPage      int
)

// postersCmd represents the posters command
var postersCmd = &cobra.Command{
	Use:   "posters [genre]",
	Short: "Download movie posters",
	Long: `Download the posters of one page of a genre listing, or of all your
favorites with --favorites. Files are named after the TMDB movie id. A poster
that fails to download is reported and skipped; the others are still saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPosters,
}

func init() {
	postersCmd.Flags().BoolVar(&postersFavorites, "favorites", false, "download the posters of your favorites")
	postersCmd.Flags().StringVar(&postersDir, "dir", "posters", "directory to write posters to")
	postersCmd.Flags().StringVar(&postersSize, "size", "", "poster size label, e.g. w342 (default from images.poster_size)")
	postersCmd.Flags().IntVar(&postersPage, "page", 1, "genre listing page")
}

type posterFile struct {
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	File    string `json:"file,omitempty"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func runPosters(cmd *cobra.Command, args []string) error {
	if postersFavorites == (len(args) == 1) {
		return errors.New("specify either a genre or --favorites")
	}

	ctx := cmd.Context()

	var movies []tmdb.Movie
	if postersFavorites {
		session, err := requireSession()
		if err != nil {
			return err
		}
		if movies, err = tmdbClient.ListFavorites(ctx, session); err != nil {
			return err
		}
	} else {
		genre, err := tmdb.ResolveGenre(args[0])
		if err != nil {
			return err
		}
		page, err := tmdbClient.ListMoviesByGenre(ctx, genre.ID, postersPage)
		if err != nil {
			return err
		}
		movies = page.Movies
	}

	images := imageConfig(ctx)
	size := postersSize
	if size == "" {
		size = cfg.Images.PosterSize
	}
	if !images.HasPosterSize(size) {
		return fmt.Errorf("unsupported poster size %q, available: %s", size, strings.Join(images.PosterSizes, ", "))
	}

	if err := os.MkdirAll(postersDir, 0o755); err != nil {
		return fmt.Errorf("failed to create poster directory: %w", err)
	}

	logger.Info().Int("movies", len(movies)).Str("size", size).Str("dir", postersDir).Msg("Downloading posters")

	results := tmdbClient.FetchPosters(ctx, images, size, movies, cfg.Images.Concurrency)
	files := savePosters(postersDir, results)

	var saved, failed, missing int
	for _, f := range files {
		switch f.Status {
		case "saved":
			saved++
		case "failed":
			failed++
		case "no_poster":
			missing++
		}
	}

	if printer.IsJSON() {
		return printer.Output(files)
	}

	for _, f := range files {
		switch f.Status {
		case "saved":
			printer.Text("✓ %s → %s", f.Title, f.File)
		case "failed":
			printer.Text("✗ %s: %s", f.Title, f.Error)
		}
	}
	printer.Text("\n%d saved, %d failed, %d without poster", saved, failed, missing)
	return nil
}

// savePosters writes every downloaded poster into dir. Write failures are
// reported on their row like download failures.
func savePosters(dir string, results []tmdb.PosterResult) []posterFile {
	files := make([]posterFile, 0, len(results))
	for _, r := range results {
		f := posterFile{MovieID: r.Movie.ID, Title: r.Movie.Title, URL: r.URL}
		switch {
		case !r.Movie.HasPoster():
			f.Status = "no_poster"
		case r.Err != nil:
			f.Status = "failed"
			f.Error = r.Err.Error()
		default:
			name := filepath.Join(dir, posterFileName(r.Movie))
			if err := os.WriteFile(name, r.Data, 0o644); err != nil {
				logger.Warn().Err(err).Str("file", name).Msg("Failed to write poster")
				f.Status = "failed"
				f.Error = err.Error()
				break
			}
			f.Status = "saved"
			f.File = name
		}
		files = append(files, f)
	}
	return files
}

// posterFileName names a poster after the movie id, keeping the extension of
// the poster path.
func posterFileName(m tmdb.Movie) string {
	ext := path.Ext(m.PosterPath)
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%d%s", m.ID, strings.ToLower(ext))
}
