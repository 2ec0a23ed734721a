package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/favmovies/config"
	"github.com/s0up4200/favmovies/filter"
	"github.com/s0up4200/favmovies/outfmt"
	"github.com/s0up4200/favmovies/remoteconfig"
	"github.com/s0up4200/favmovies/sessionstore"
	"github.com/s0up4200/favmovies/tmdb"
)

var (
	cfgFile      string
	outputFormat string
	outputQuery  string

	cfg         *config.Config
	logger      zerolog.Logger
	tmdbClient  *tmdb.Client
	remoteCache *remoteconfig.Cache
	sessions    *sessionstore.Store
	printer     *outfmt.Printer
	compiler    = filter.NewExprCompiler()

	// Command flags
	filterExpr string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "favmovies",
	Short: "Browse TMDB movies by genre and manage your favorites",
	Long: `favmovies is a CLI client for The Movie Database. It lists movies by
genre, logs in to your TMDB account and keeps your favorites list in sync,
downloads posters and can push your favorites to Radarr.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text or json")
	rootCmd.PersistentFlags().StringVarP(&outputQuery, "query", "q", "", "jq expression applied to JSON output")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(moviesCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(postersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeOutput sets up the printer. Commands that work without a config
// file use it as their PersistentPreRunE.
func initializeOutput(cmd *cobra.Command, args []string) error {
	mode, err := outfmt.Parse(outputFormat)
	if err != nil {
		return err
	}
	printer = outfmt.NewPrinter(mode, outputQuery, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger = setupLogger(config.LoggingConfig{Level: "info", Color: true})
	return nil
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	if err := initializeOutput(cmd, args); err != nil {
		return err
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)
	if cfg.File != "" {
		logger.Debug().Str("file", cfg.File).Msg("Loaded configuration")
	}

	// Create TMDB client
	tmdbClient, err = tmdb.NewClient(cfg.TMDB.APIKey, logger,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithMaxRetries(cfg.TMDB.MaxRetries),
		tmdb.WithRetryDelay(cfg.TMDB.RetryDelay),
		tmdb.WithRateLimit(cfg.TMDB.RateLimit, cfg.TMDB.RateBurst),
		tmdb.WithUserAgent("favmovies/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	remoteCache = remoteconfig.New(tmdbClient, remoteconfig.NewFileStore(cfg.Images.ConfigPath), logger)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	// Console format, colored only on a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// sessionStore opens the keyring on first use so commands that never touch
// the session don't trigger a keyring prompt.
func sessionStore() (*sessionstore.Store, error) {
	if sessions != nil {
		return sessions, nil
	}
	store, err := sessionstore.Open(sessionstore.Options{
		Backend: cfg.Session.KeyringBackend,
		FileDir: cfg.Session.KeyringDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	sessions = store
	return sessions, nil
}

// requireSession loads the saved login or fails with a hint to log in.
func requireSession() (tmdb.Session, error) {
	store, err := sessionStore()
	if err != nil {
		return tmdb.Session{}, err
	}
	rec, err := store.Load()
	if err != nil {
		return tmdb.Session{}, err
	}
	return rec.Session, nil
}

// optionalSession is requireSession for commands that work logged out.
func optionalSession() (tmdb.Session, bool) {
	session, err := requireSession()
	if err != nil {
		if !errors.Is(err, sessionstore.ErrNoSession) {
			logger.Warn().Err(err).Msg("Could not read saved session, continuing logged out")
		}
		return tmdb.Session{}, false
	}
	return session, true
}

// imageConfig returns the remote image configuration, refreshing it first
// when it is older than images.max_age_days. A failed refresh is not fatal.
func imageConfig(ctx context.Context) remoteconfig.RemoteConfig {
	refreshed, err := remoteCache.RefreshIfStale(ctx, cfg.Images.MaxAgeDays)
	var persistErr *remoteconfig.PersistError
	switch {
	case errors.As(err, &persistErr):
		logger.Warn().Err(persistErr.Err).Msg("Refreshed image configuration but failed to save it")
	case err != nil:
		logger.Warn().Err(err).Msg("Failed to refresh image configuration, using cached values")
	case refreshed:
		logger.Debug().Msg("Refreshed image configuration")
	}
	return remoteCache.Get()
}

// getFilterExpression determines the filter expression to use. A value that
// names a saved filter from the config is replaced by its expression.
func getFilterExpression(value string) string {
	if saved, ok := cfg.Filter[value]; ok && saved != "" {
		return saved
	}
	return value
}

// compileFilter compiles the --filter flag; nil means no filtering.
func compileFilter() (filter.Filter, error) {
	if filterExpr == "" {
		return nil, nil
	}
	expr := getFilterExpression(filterExpr)
	logger.Debug().Str("filter", expr).Msg("Compiling filter")

	f, err := compiler.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f, nil
}
