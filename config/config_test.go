package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			APIKey:     "valid-api-key",
			BaseURL:    "https://api.themoviedb.org/3",
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
		Images:  ImagesConfig{MaxAgeDays: 7, Concurrency: 4},
		Session: SessionConfig{KeyringBackend: "auto"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.TMDB.APIKey = "" }, wantErr: "tmdb.api_key"},
		{name: "placeholder api key", mutate: func(c *Config) { c.TMDB.APIKey = "your-api-key-here" }, wantErr: "tmdb.api_key"},
		{name: "bad base url", mutate: func(c *Config) { c.TMDB.BaseURL = "nope" }, wantErr: "tmdb.base_url"},
		{name: "zero timeout", mutate: func(c *Config) { c.TMDB.Timeout = 0 }, wantErr: "tmdb.timeout"},
		{name: "too many retries", mutate: func(c *Config) { c.TMDB.MaxRetries = 11 }, wantErr: "tmdb.max_retries"},
		{name: "negative max age", mutate: func(c *Config) { c.Images.MaxAgeDays = -1 }, wantErr: "images.max_age_days"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Images.Concurrency = 0 }, wantErr: "images.concurrency"},
		{name: "unknown keyring backend", mutate: func(c *Config) { c.Session.KeyringBackend = "vault" }, wantErr: "session.keyring_backend"},
		{name: "radarr enabled without key", mutate: func(c *Config) {
			c.Radarr = RadarrConfig{Enabled: true, URL: "http://localhost:7878"}
		}, wantErr: "radarr.api_key"},
		{name: "radarr disabled without key", mutate: func(c *Config) { c.Radarr = RadarrConfig{} }},
		{name: "invalid level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "invalid logging level"},
		{name: "invalid format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "invalid logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FileWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
tmdb:
  api_key: file-key
  timeout: 10s
images:
  config_path: /tmp/favmovies-test/remote.json
radarr:
  enabled: true
  api_key: radarr-key
  quality_profile_id: 4
  root_folder: /movies
filter:
  posters: HasPoster
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.TMDB.APIKey)
	assert.Equal(t, 10*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 2, cfg.TMDB.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.TMDB.RetryDelay)
	assert.Equal(t, 7, cfg.Images.MaxAgeDays)
	assert.Equal(t, "w342", cfg.Images.PosterSize)
	assert.Equal(t, "/tmp/favmovies-test/remote.json", cfg.Images.ConfigPath)
	assert.Equal(t, "auto", cfg.Session.KeyringBackend)
	assert.True(t, cfg.Radarr.Enabled)
	assert.Equal(t, int64(4), cfg.Radarr.QualityProfileID)
	assert.True(t, cfg.Radarr.Monitored)
	assert.Equal(t, "HasPoster", cfg.Filter["posters"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tmdb:\n  api_key: file-key\n"), 0o644))

	t.Setenv("FAVMOVIES_TMDB_API_KEY", "env-key")
	t.Setenv("FAVMOVIES_TMDB_MAX_RETRIES", "5")
	t.Setenv("FAVMOVIES_LOGGING_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.TMDB.APIKey)
	assert.Equal(t, 5, cfg.TMDB.MaxRetries)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Images.ConfigPath)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tmdb.api_key")
}
