package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/favmovies/tmdb"
)

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `contains(Title, "alien")`,
			wantErr:    false,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `contains(Title, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown identifier",
			expression: `Year > 2020`,
			wantErr:    true,
		},
		{
			name:       "non-boolean result",
			expression: `Title`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Favorite and HasPoster and (startsWith(Title, "the") or ID > 500)`,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				var ce *CompilationError
				assert.ErrorAs(t, err, &ce)
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if filter == nil {
					t.Errorf("expected filter but got nil")
				}
			}
		})
	}
}

func TestFilterMatch(t *testing.T) {
	movie := tmdb.Movie{ID: 603, Title: "The Matrix", PosterPath: "/matrix.jpg"}

	tests := []struct {
		name       string
		expression string
		favorite   bool
		expected   bool
	}{
		{name: "title contains", expression: `contains(Title, "MATRIX")`, expected: true},
		{name: "starts with", expression: `startsWith(Title, "the")`, expected: true},
		{name: "ends with", expression: `endsWith(Title, "reloaded")`, expected: false},
		{name: "id comparison", expression: `ID == 603`, expected: true},
		{name: "has poster", expression: `HasPoster and PosterPath == "/matrix.jpg"`, expected: true},
		{name: "favorite", expression: `Favorite`, favorite: true, expected: true},
		{name: "not favorite", expression: `not Favorite`, favorite: true, expected: false},
		{name: "upper and lower", expression: `upper(Title) == "THE MATRIX" and lower(Title) == "the matrix"`, expected: true},
		{name: "movie struct", expression: `Movie.ID == ID`, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)
			require.NoError(t, err)

			got, err := filter.Match(Candidate{Movie: movie, Favorite: tt.favorite})
			require.NoError(t, err)
			if got != tt.expected {
				t.Errorf("Match() = %v, want %v for %q", got, tt.expected, tt.expression)
			}
		})
	}
}

func TestFilterMatch_EvaluationError(t *testing.T) {
	c := NewExprCompiler(WithCustomFunctions(map[string]any{
		"lookup": func(id int) (bool, error) { return false, errors.New("lookup unavailable") },
	}))
	filter, err := c.Compile(`lookup(ID)`)
	require.NoError(t, err)

	ok, err := filter.Match(Candidate{Movie: tmdb.Movie{ID: 1, Title: "x"}})
	assert.False(t, ok)
	var ee *EvaluationError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.MovieID)
	assert.Equal(t, "lookup(ID)", ee.Expression)
}

func TestExprCompiler_Cache(t *testing.T) {
	c := NewExprCompiler(WithCache(2))

	f1, err := c.Compile(`ID > 1`)
	require.NoError(t, err)
	f2, err := c.Compile(` ID > 1 `)
	require.NoError(t, err)
	assert.Same(t, f1, f2, "expected cached filter")
	assert.Equal(t, 1, c.Size())

	_, err = c.Compile(`ID > 2`)
	require.NoError(t, err)
	_, err = c.Compile(`ID > 3`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())

	uncached := NewExprCompiler(WithCache(0))
	_, err = uncached.Compile(`ID > 1`)
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Size())
}

func TestWithCustomFunctions(t *testing.T) {
	c := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isClassic": func(id int) bool { return id < 1000 },
	}))

	filter, err := c.Compile(`isClassic(ID)`)
	require.NoError(t, err)

	ok, err := filter.Match(Candidate{Movie: tmdb.Movie{ID: 13}})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestApply(t *testing.T) {
	movies := []tmdb.Movie{
		{ID: 1, Title: "Alien", PosterPath: "/a.jpg"},
		{ID: 2, Title: "Aliens"},
		{ID: 3, Title: "Heat", PosterPath: "/h.jpg"},
	}
	favorites := []tmdb.Movie{{ID: 2}, {ID: 3}}

	filter, err := CompileFilter(`Favorite or HasPoster and contains(Title, "alien")`)
	require.NoError(t, err)

	got := Apply(filter, movies, favorites, zerolog.Nop())
	require.Len(t, got, 3)

	filter, err = CompileFilter(`Favorite and HasPoster`)
	require.NoError(t, err)
	got = Apply(filter, movies, favorites, zerolog.Nop())
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)
}

func TestLRUCache(t *testing.T) {
	c := newLRUCache[int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	// Touch a so b becomes the oldest
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	assert.Equal(t, 2, c.Len())

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
}
