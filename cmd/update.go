package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repoSlug = "s0up4200/favmovies"

var (
	version   = "dev"
	buildTime = "unknown"

	checkOnly bool
)

// SetVersion sets the build information reported by the version command
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: initializeOutput,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := struct {
			Version   string `json:"version"`
			BuildTime string `json:"build_time"`
			GoVersion string `json:"go_version"`
			Platform  string `json:"platform"`
		}{version, buildTime, runtime.Version(), runtime.GOOS + "/" + runtime.GOARCH}

		if printer.IsJSON() {
			return printer.Output(info)
		}
		printer.Text("favmovies %s", info.Version)
		printer.Text("  built:    %s", info.BuildTime)
		printer.Text("  go:       %s", info.GoVersion)
		printer.Text("  platform: %s", info.Platform)
		return nil
	},
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update favmovies to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: initializeOutput,
	RunE:              runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only check for a newer release")
}

// currentVersion parses the build version. Development builds have none.
func currentVersion() (semver.Version, error) {
	if version == "" || version == "dev" {
		return semver.Version{}, errors.New("development builds can't be updated, install a release instead")
	}
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("failed to parse version %q: %w", version, err)
	}
	return v, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := currentVersion()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(current.String()) {
		printer.Text("✓ favmovies %s is the latest version", current)
		return printer.Output(map[string]any{"current": current.String(), "latest": latest.Version(), "updated": false})
	}

	if checkOnly {
		printer.Text("favmovies %s is available (current %s)", latest.Version(), current)
		return printer.Output(map[string]any{"current": current.String(), "latest": latest.Version(), "updated": false})
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	logger.Info().Str("from", current.String()).Str("to", latest.Version()).Msg("Updating favmovies")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	printer.Text("✓ Updated favmovies to %s", latest.Version())
	return printer.Output(map[string]any{"current": current.String(), "latest": latest.Version(), "updated": true})
}
