package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Images  ImagesConfig  `mapstructure:"images"`
	Session SessionConfig `mapstructure:"session"`
	Radarr  RadarrConfig  `mapstructure:"radarr"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	RateLimit  float64       `mapstructure:"rate_limit"`
	RateBurst  int           `mapstructure:"rate_burst"`
}

// ImagesConfig controls the remote image configuration cache and downloads
type ImagesConfig struct {
	ConfigPath  string `mapstructure:"config_path"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
	PosterSize  string `mapstructure:"poster_size"`
	Concurrency int    `mapstructure:"concurrency"`
}

// SessionConfig selects where the login session is kept
type SessionConfig struct {
	KeyringBackend string `mapstructure:"keyring_backend"`
	KeyringDir     string `mapstructure:"keyring_dir"`
}

// RadarrConfig holds Radarr API connection details and add settings
type RadarrConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	URL              string `mapstructure:"url"`
	APIKey           string `mapstructure:"api_key"`
	QualityProfileID int64  `mapstructure:"quality_profile_id"`
	RootFolder       string `mapstructure:"root_folder"`
	Monitored        bool   `mapstructure:"monitored"`
	Search           bool   `mapstructure:"search"`
}

// FilterConfig maps names to saved filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
