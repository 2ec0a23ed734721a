package tmdb

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMoviesByGenre(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /3/genre/28/movies", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get(ParamPage))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"page":        2,
			"total_pages": 5,
			"results": []map[string]any{
				{"id": 1, "title": "Alien", "poster_path": "/a.jpg"},
				{"id": 2, "title": "Heat", "poster_path": nil},
			},
		})
	})
	_, client := newTestServer(t, mux)

	page, err := client.ListMoviesByGenre(context.Background(), GenreAction, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.True(t, page.HasMorePages())
	require.Len(t, page.Movies, 2)
	assert.True(t, page.Movies[0].HasPoster())
	assert.False(t, page.Movies[1].HasPoster())
}

func TestListMoviesByGenre_Errors(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]any
		check func(t *testing.T, err error)
	}{
		{
			name: "results missing",
			body: map[string]any{"page": 1},
			check: func(t *testing.T, err error) {
				var missing *MissingFieldError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, KeyResults, missing.Name)
			},
		},
		{
			name: "entry without id",
			body: map[string]any{"results": []map[string]any{{"title": "x"}}},
			check: func(t *testing.T, err error) {
				var missing *MissingFieldError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "results[0].id", missing.Name)
			},
		},
		{
			name: "status code envelope",
			body: map[string]any{"status_code": 34, "status_message": "The resource you requested could not be found."},
			check: func(t *testing.T, err error) {
				var rej *ProviderRejectedError
				require.ErrorAs(t, err, &rej)
				assert.Equal(t, StatusResourceAbsent, rej.StatusCode)
			},
		},
		{
			name: "results not an array",
			body: map[string]any{"results": "nope"},
			check: func(t *testing.T, err error) {
				var malformed *MalformedBodyError
				require.ErrorAs(t, err, &malformed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /3/genre/878/movies", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, tt.body)
			})
			_, client := newTestServer(t, mux)

			_, err := client.ListMoviesByGenre(context.Background(), GenreSciFi, 0)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestMovieEqual(t *testing.T) {
	a := Movie{ID: 1, Title: "A"}
	b := Movie{ID: 1, Title: "Another title", PosterPath: "/x.jpg"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Movie{ID: 2, Title: "A"}))
}
