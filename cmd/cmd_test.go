package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/favmovies/config"
	"github.com/s0up4200/favmovies/remoteconfig"
	"github.com/s0up4200/favmovies/tmdb"
)

func TestParseMovieID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{arg: "603", want: 603},
		{arg: "1", want: 1},
		{arg: "0", wantErr: true},
		{arg: "-5", wantErr: true},
		{arg: "matrix", wantErr: true},
		{arg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseMovieID(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPosterFileName(t *testing.T) {
	assert.Equal(t, "603.jpg", posterFileName(tmdb.Movie{ID: 603, PosterPath: "/abc.jpg"}))
	assert.Equal(t, "603.png", posterFileName(tmdb.Movie{ID: 603, PosterPath: "/abc.PNG"}))
	assert.Equal(t, "7.jpg", posterFileName(tmdb.Movie{ID: 7, PosterPath: "/noext"}))
}

func TestSavePosters(t *testing.T) {
	logger = zerolog.Nop()
	dir := t.TempDir()

	results := []tmdb.PosterResult{
		{Movie: tmdb.Movie{ID: 1, Title: "One", PosterPath: "/1.jpg"}, URL: "https://img/w342/1.jpg", Data: []byte("one")},
		{Movie: tmdb.Movie{ID: 2, Title: "Two", PosterPath: "/2.jpg"}, URL: "https://img/w342/2.jpg", Err: errors.New("boom")},
		{Movie: tmdb.Movie{ID: 3, Title: "Three"}},
	}

	files := savePosters(dir, results)
	require.Len(t, files, 3)

	assert.Equal(t, "saved", files[0].Status)
	assert.Equal(t, filepath.Join(dir, "1.jpg"), files[0].File)
	data, err := os.ReadFile(files[0].File)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	assert.Equal(t, "failed", files[1].Status)
	assert.Equal(t, "boom", files[1].Error)
	assert.NoFileExists(t, filepath.Join(dir, "2.jpg"))

	assert.Equal(t, "no_poster", files[2].Status)
	assert.Empty(t, files[2].URL)
}

func TestPrompterComplete(t *testing.T) {
	line := func(string) (string, error) { return "alice", nil }
	secret := func(string) (string, error) { return "s3cret", nil }

	t.Run("flags win", func(t *testing.T) {
		p := prompter{interactive: false}
		creds, err := p.complete(tmdb.Credentials{Username: "bob", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "bob", creds.Username)
	})

	t.Run("prompts for missing values", func(t *testing.T) {
		p := prompter{interactive: true, readLine: line, readSecret: secret}
		creds, err := p.complete(tmdb.Credentials{})
		require.NoError(t, err)
		assert.Equal(t, tmdb.Credentials{Username: "alice", Password: "s3cret"}, creds)
	})

	t.Run("keeps given username", func(t *testing.T) {
		p := prompter{interactive: true, readLine: line, readSecret: secret}
		creds, err := p.complete(tmdb.Credentials{Username: "bob"})
		require.NoError(t, err)
		assert.Equal(t, "bob", creds.Username)
		assert.Equal(t, "s3cret", creds.Password)
	})

	t.Run("non interactive without password", func(t *testing.T) {
		p := prompter{interactive: false}
		_, err := p.complete(tmdb.Credentials{Username: "bob"})
		assert.ErrorIs(t, err, tmdb.ErrMissingCredentials)
	})

	t.Run("prompt failure", func(t *testing.T) {
		p := prompter{
			interactive: true,
			readLine:    line,
			readSecret:  func(string) (string, error) { return "", errors.New("no tty") },
		}
		_, err := p.complete(tmdb.Credentials{})
		assert.ErrorContains(t, err, "failed to read password")
	})
}

func TestGetFilterExpression(t *testing.T) {
	cfg = &config.Config{Filter: config.FilterConfig{"posterless": "!HasPoster"}}
	t.Cleanup(func() { cfg = nil })

	assert.Equal(t, "!HasPoster", getFilterExpression("posterless"))
	assert.Equal(t, "Favorite", getFilterExpression("Favorite"))
}

func TestBuildRows(t *testing.T) {
	movies := []tmdb.Movie{
		{ID: 1, Title: "One", PosterPath: "/1.jpg"},
		{ID: 2, Title: "Two"},
	}
	favorites := []tmdb.Movie{{ID: 2}}

	rows := buildRows(movies, favorites, remoteconfig.Default())
	require.Len(t, rows, 2)

	assert.False(t, rows[0].Favorite)
	assert.Equal(t, "https://image.tmdb.org/t/p/w154/1.jpg", rows[0].PosterURL)
	assert.True(t, rows[1].Favorite)
	assert.Empty(t, rows[1].PosterURL)
}

func TestCurrentVersion(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "dev"
	_, err := currentVersion()
	assert.ErrorContains(t, err, "development builds")

	version = "v1.4.2"
	v, err := currentVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", v.String())

	version = "not-a-version"
	_, err = currentVersion()
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := setupLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())

	l = setupLogger(config.LoggingConfig{Level: "WARN", Format: "console"})
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())

	l = setupLogger(config.LoggingConfig{Level: "bogus"})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}

func TestFormatDays(t *testing.T) {
	assert.Equal(t, "0 days", formatDays(0))
	assert.Equal(t, "1 day", formatDays(1))
	assert.Equal(t, "12 days", formatDays(12))
}
