package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/favmovies/remoteconfig"
)

var forceRefresh bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the cached TMDB image configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached image configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the image configuration when it is outdated",
	Long: `Fetch the image configuration from TMDB when the cached copy is older
than images.max_age_days, or always with --force. The previous configuration
stays in use when the fetch fails.`,
	Args: cobra.NoArgs,
	RunE: runConfigRefresh,
}

func init() {
	configRefreshCmd.Flags().BoolVar(&forceRefresh, "force", false, "refresh regardless of age")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configRefreshCmd)
}

type remoteConfigView struct {
	remoteconfig.RemoteConfig
	File    string `json:"file"`
	AgeDays *int   `json:"age_days,omitempty"`
	Stale   bool   `json:"stale"`
}

func newRemoteConfigView(rc remoteconfig.RemoteConfig, now time.Time) remoteConfigView {
	view := remoteConfigView{
		RemoteConfig: rc,
		File:         cfg.Images.ConfigPath,
		Stale:        rc.Stale(now, cfg.Images.MaxAgeDays),
	}
	if !rc.LastUpdated.IsZero() {
		age := rc.AgeDays(now)
		view.AgeDays = &age
	}
	return view
}

func printRemoteConfig(view remoteConfigView) {
	printer.Row("File", view.File)
	printer.Row("Base URL", view.BaseImageURL)
	printer.Row("Secure base URL", view.SecureBaseImageURL)
	printer.Row("Poster sizes", strings.Join(view.PosterSizes, " "))
	printer.Row("Profile sizes", strings.Join(view.ProfileSizes, " "))
	if view.AgeDays == nil {
		printer.Row("Last updated", "never (built-in defaults)")
	} else {
		printer.Row("Last updated", view.LastUpdated.Local().Format(time.RFC1123))
		printer.Row("Age", formatDays(*view.AgeDays))
	}
	if view.Stale {
		printer.Row("Status", "stale")
	} else {
		printer.Row("Status", "fresh")
	}
}

func formatDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	view := newRemoteConfigView(remoteCache.Get(), time.Now())
	if printer.IsJSON() {
		return printer.Output(view)
	}
	printRemoteConfig(view)
	return printer.Flush()
}

func runConfigRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var refreshed bool
	var err error
	if forceRefresh {
		refreshed, err = remoteCache.Refresh(ctx)
	} else {
		refreshed, err = remoteCache.RefreshIfStale(ctx, cfg.Images.MaxAgeDays)
	}

	var persistErr *remoteconfig.PersistError
	if errors.As(err, &persistErr) {
		logger.Warn().Err(persistErr.Err).Str("file", cfg.Images.ConfigPath).Msg("Refreshed configuration is in use but could not be saved")
		err = nil
	}
	if err != nil {
		return err
	}

	view := newRemoteConfigView(remoteCache.Get(), time.Now())
	if printer.IsJSON() {
		return printer.Output(struct {
			Refreshed bool `json:"refreshed"`
			remoteConfigView
		}{refreshed, view})
	}

	if refreshed {
		printer.Text("✓ Image configuration refreshed\n")
	} else {
		printer.Text("Image configuration is up to date\n")
	}
	printRemoteConfig(view)
	return printer.Flush()
}
