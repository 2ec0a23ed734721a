package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/favmovies/sessionstore"
	"github.com/s0up4200/favmovies/tmdb"
)

// fakeTMDB serves the provider endpoints the commands touch.
type fakeTMDB struct {
	configCalls atomic.Int32
	favoriteReq atomic.Value
}

func (f *fakeTMDB) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, body any) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}

	mux.HandleFunc("GET /3/configuration", func(w http.ResponseWriter, r *http.Request) {
		f.configCalls.Add(1)
		reply(w, map[string]any{"images": map[string]any{
			"base_url":        "http://img.test/t/p/",
			"secure_base_url": "https://img.test/t/p/",
			"poster_sizes":    []string{"w154", "w342", "original"},
			"profile_sizes":   []string{"w45"},
		}})
	})
	mux.HandleFunc("GET /3/genre/28/movies", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]any{
			"page":        1,
			"total_pages": 3,
			"results": []map[string]any{
				{"id": 603, "title": "The Matrix", "poster_path": "/matrix.jpg"},
				{"id": 604, "title": "The Matrix Reloaded", "poster_path": nil},
			},
		})
	})
	mux.HandleFunc("GET /3/account/42/favorite/movies", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sess1", r.URL.Query().Get("session_id"))
		reply(w, map[string]any{
			"page":        1,
			"total_pages": 1,
			"results":     []map[string]any{{"id": 603, "title": "The Matrix", "poster_path": "/matrix.jpg"}},
		})
	})
	mux.HandleFunc("POST /3/account/42/favorite", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.favoriteReq.Store(body)
		reply(w, map[string]any{"status_code": 1, "status_message": "Success."})
	})
	return mux
}

// runCommand executes the root command against a fake provider and returns
// stdout.
func runCommand(t *testing.T, server *httptest.Server, loggedIn bool, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`tmdb:
  api_key: test-key
  base_url: %s/3
  retry_delay: 0s
  rate_limit: 0
images:
  config_path: %s
filter:
  posterless: "!HasPoster"
logging:
  level: error
`, server.URL, filepath.Join(dir, "remote_config.json"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	// Reset flag-bound state left over from earlier runs
	filterExpr, moviesPage, outputFormat, outputQuery = "", 1, "text", ""
	cfg, remoteCache, tmdbClient = nil, nil, nil

	sessions = sessionstore.New(keyring.NewArrayKeyring(nil))
	if loggedIn {
		require.NoError(t, sessions.Save(tmdb.Session{ID: "sess1", AccountID: 42, Username: "neo"}))
	}
	t.Cleanup(func() { sessions = nil })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestMoviesCommandJSON(t *testing.T) {
	fake := &fakeTMDB{}
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	out, err := runCommand(t, server, true, "movies", "action", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Genre      tmdb.Genre `json:"genre"`
		Page       int        `json:"page"`
		TotalPages int        `json:"total_pages"`
		Movies     []struct {
			ID        int    `json:"id"`
			Title     string `json:"title"`
			Favorite  bool   `json:"favorite"`
			PosterURL string `json:"poster_url"`
		} `json:"movies"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))

	assert.Equal(t, tmdb.GenreAction, view.Genre.ID)
	assert.Equal(t, 3, view.TotalPages)
	require.Len(t, view.Movies, 2)
	assert.True(t, view.Movies[0].Favorite)
	assert.Equal(t, "https://img.test/t/p/w154/matrix.jpg", view.Movies[0].PosterURL)
	assert.False(t, view.Movies[1].Favorite)
	assert.Empty(t, view.Movies[1].PosterURL)

	// The image configuration was never stored, so it was fetched once.
	assert.Equal(t, int32(1), fake.configCalls.Load())
}

func TestMoviesCommandFilterAndQuery(t *testing.T) {
	server := httptest.NewServer((&fakeTMDB{}).handler(t))
	t.Cleanup(server.Close)

	out, err := runCommand(t, server, false, "movies", "28", "--filter", "posterless", "--query", ".movies[].title")
	require.NoError(t, err)
	assert.JSONEq(t, `"The Matrix Reloaded"`, out)
}

func TestMoviesCommandText(t *testing.T) {
	server := httptest.NewServer((&fakeTMDB{}).handler(t))
	t.Cleanup(server.Close)

	out, err := runCommand(t, server, true, "movies", "Action")
	require.NoError(t, err)
	assert.Contains(t, out, "Action (page 1 of 3)")
	assert.Contains(t, out, "The Matrix Reloaded")
	assert.Contains(t, out, "★")
}

func TestMoviesCommandUnknownGenre(t *testing.T) {
	server := httptest.NewServer((&fakeTMDB{}).handler(t))
	t.Cleanup(server.Close)

	_, err := runCommand(t, server, false, "movies", "qqqqzzzz")
	assert.ErrorIs(t, err, tmdb.ErrUnknownGenre)
}

func TestFavoritesAddCommand(t *testing.T) {
	fake := &fakeTMDB{}
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	out, err := runCommand(t, server, true, "favorites", "add", "603", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"movie_id": 603, "favorite": true}`, out)

	body, ok := fake.favoriteReq.Load().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "movie", body["media_type"])
	assert.EqualValues(t, 603, body["media_id"])
	assert.Equal(t, true, body["favorite"])
}

func TestFavoritesListRequiresLogin(t *testing.T) {
	server := httptest.NewServer((&fakeTMDB{}).handler(t))
	t.Cleanup(server.Close)

	_, err := runCommand(t, server, false, "favorites", "list")
	assert.ErrorIs(t, err, sessionstore.ErrNoSession)
}

func TestFavoritesStatusCommand(t *testing.T) {
	server := httptest.NewServer((&fakeTMDB{}).handler(t))
	t.Cleanup(server.Close)

	out, err := runCommand(t, server, true, "favorites", "status", "604")
	require.NoError(t, err)
	assert.Contains(t, out, "Movie 604 is not a favorite")
}

func TestWhoamiCommand(t *testing.T) {
	server := httptest.NewServer((&fakeTMDB{}).handler(t))
	t.Cleanup(server.Close)

	out, err := runCommand(t, server, true, "whoami", "--query", ".username")
	require.NoError(t, err)
	assert.JSONEq(t, `"neo"`, out)
}

func TestConfigRefreshCommand(t *testing.T) {
	fake := &fakeTMDB{}
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	out, err := runCommand(t, server, false, "config", "refresh", "-o", "json")
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, true, view["refreshed"])
	assert.Equal(t, "https://img.test/t/p/", view["secure_base_image_url"])
	assert.Equal(t, false, view["stale"])
	assert.EqualValues(t, 0, view["age_days"])
	assert.Equal(t, int32(1), fake.configCalls.Load())
}
