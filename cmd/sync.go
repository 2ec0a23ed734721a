package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/favmovies/radarr"
)

var syncDryRun bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Export your favorites to other services",
}

var syncRadarrCmd = &cobra.Command{
	Use:   "radarr",
	Short: "Add your favorites to Radarr",
	Long: `Add every favorite movie that Radarr does not know yet, using the quality
profile and root folder from the radarr section of the config. Movies already
in Radarr are left alone.`,
	Args: cobra.NoArgs,
	RunE: runSyncRadarr,
}

func init() {
	syncRadarrCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "d", false, "show what would be added without changing Radarr")

	syncCmd.AddCommand(syncRadarrCmd)
}

func runSyncRadarr(cmd *cobra.Command, args []string) error {
	if !cfg.Radarr.Enabled {
		return errors.New("radarr is not enabled, set radarr.enabled in the config")
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

	radarrClient, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
	if err != nil {
		return fmt.Errorf("failed to create Radarr client: %w", err)
	}

	logger.Info().Int("favorites", len(favorites)).Bool("dry_run", syncDryRun).Msg("Syncing favorites to Radarr")

	summary, err := radarrClient.SyncFavorites(ctx, favorites, radarr.SyncOptions{
		QualityProfileID: cfg.Radarr.QualityProfileID,
		RootFolder:       cfg.Radarr.RootFolder,
		Monitored:        cfg.Radarr.Monitored,
		Search:           cfg.Radarr.Search,
		DryRun:           syncDryRun,
	})
	if err != nil {
		return err
	}

	if printer.IsJSON() {
		if err := printer.Output(summary); err != nil {
			return err
		}
	} else {
		var formatter radarr.ResultFormatter = radarr.NewConsoleFormatter()
		printer.Text("%s", formatter.FormatSyncResults(summary))
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d favorites could not be added to Radarr", summary.Failed, len(summary.Results))
	}
	return nil
}
