package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/favmovies/remoteconfig"
	"github.com/s0up4200/favmovies/sessionstore"
	"github.com/s0up4200/favmovies/tmdb"
)

// EnvPrefix prefixes environment overrides, e.g. FAVMOVIES_TMDB_API_KEY
const EnvPrefix = "FAVMOVIES"

const appDir = "favmovies"

// Load loads the configuration from file and environment. Without an
// explicit path a missing config file is fine as long as the environment
// supplies what validation needs.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+appDir))
		}

		// Check /etc
		v.AddConfigPath("/etc/" + appDir + "/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.File = v.ConfigFileUsed()
	if cfg.Images.ConfigPath == "" {
		cfg.Images.ConfigPath = defaultRemoteConfigPath()
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func defaultRemoteConfigPath() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, appDir, "remote_config.json")
	}
	return filepath.Join("."+appDir, "remote_config.json")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.timeout", tmdb.DefaultTimeout)
	v.SetDefault("tmdb.max_retries", tmdb.DefaultMaxRetries)
	v.SetDefault("tmdb.retry_delay", tmdb.DefaultRetryDelay)
	v.SetDefault("tmdb.rate_limit", tmdb.DefaultRateLimit)
	v.SetDefault("tmdb.rate_burst", tmdb.DefaultRateBurst)

	// Image defaults
	v.SetDefault("images.config_path", "")
	v.SetDefault("images.max_age_days", remoteconfig.DefaultMaxAgeDays)
	v.SetDefault("images.poster_size", tmdb.PosterSizeDetail)
	v.SetDefault("images.concurrency", tmdb.DefaultPosterConcurrency)

	// Session defaults
	v.SetDefault("session.keyring_backend", sessionstore.BackendAuto)
	v.SetDefault("session.keyring_dir", "")

	// Radarr defaults
	v.SetDefault("radarr.enabled", false)
	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("radarr.api_key", "")
	v.SetDefault("radarr.quality_profile_id", 0)
	v.SetDefault("radarr.root_folder", "")
	v.SetDefault("radarr.monitored", true)
	v.SetDefault("radarr.search", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TMDB.APIKey == "" || cfg.TMDB.APIKey == "your-api-key-here" {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key (or %s_TMDB_API_KEY)", EnvPrefix)
	}
	if _, err := tmdb.ParseBaseURL(cfg.TMDB.BaseURL); err != nil {
		return fmt.Errorf("tmdb.base_url: %w", err)
	}
	if cfg.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive")
	}
	if cfg.TMDB.MaxRetries < 0 || cfg.TMDB.MaxRetries > 10 {
		return fmt.Errorf("tmdb.max_retries must be between 0 and 10")
	}
	if cfg.TMDB.RetryDelay < 0 {
		return fmt.Errorf("tmdb.retry_delay must not be negative")
	}

	if cfg.Images.MaxAgeDays < 0 {
		return fmt.Errorf("images.max_age_days must not be negative")
	}
	if cfg.Images.Concurrency < 1 {
		return fmt.Errorf("images.concurrency must be at least 1")
	}

	switch cfg.Session.KeyringBackend {
	case sessionstore.BackendAuto, sessionstore.BackendFile, sessionstore.BackendSystem:
	default:
		return fmt.Errorf("invalid session.keyring_backend: %s (must be 'auto', 'file' or 'system')", cfg.Session.KeyringBackend)
	}

	if cfg.Radarr.Enabled {
		if cfg.Radarr.URL == "" {
			return fmt.Errorf("radarr.url is required when radarr is enabled")
		}
		if cfg.Radarr.APIKey == "" || cfg.Radarr.APIKey == "your-api-key-here" {
			return fmt.Errorf("radarr.api_key must be set to a valid API key")
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
