package tmdb

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Genre is a TMDB movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Well-known genre ids.
const (
	GenreAction = 28
	GenreSciFi  = 878
	GenreComedy = 35
)

// Genres is the TMDB movie genre catalogue.
var Genres = []Genre{
	{GenreAction, "Action"},
	{12, "Adventure"},
	{16, "Animation"},
	{GenreComedy, "Comedy"},
	{80, "Crime"},
	{99, "Documentary"},
	{18, "Drama"},
	{10751, "Family"},
	{14, "Fantasy"},
	{36, "History"},
	{27, "Horror"},
	{10402, "Music"},
	{9648, "Mystery"},
	{10749, "Romance"},
	{GenreSciFi, "Sci-Fi"},
	{10770, "TV Movie"},
	{53, "Thriller"},
	{10752, "War"},
	{37, "Western"},
}

// genreAliases maps alternative spellings to genre ids.
var genreAliases = map[string]int{
	"science fiction": GenreSciFi,
	"scifi":           GenreSciFi,
	"sf":              GenreSciFi,
}

var (
	ErrEmptyGenre   = errors.New("empty genre")
	ErrUnknownGenre = errors.New("unknown genre")
)

// AmbiguousGenreError indicates several genres matched equally well.
type AmbiguousGenreError struct {
	Query      string
	Candidates []Genre
}

func (e *AmbiguousGenreError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ambiguous genre %q, candidates:", e.Query)
	for _, g := range e.Candidates {
		fmt.Fprintf(&b, "\n  %d: %s", g.ID, g.Name)
	}
	return b.String()
}

type genreSource []Genre

func (s genreSource) String(i int) string { return strings.ToLower(s[i].Name) }
func (s genreSource) Len() int            { return len(s) }

// ResolveGenre turns a numeric id, a name, an alias or a fuzzy name into a
// genre. Exact case-insensitive matches win over fuzzy ones.
func ResolveGenre(query string) (Genre, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Genre{}, ErrEmptyGenre
	}

	if id, err := strconv.Atoi(query); err == nil {
		if g, ok := GenreByID(id); ok {
			return g, nil
		}
		// Unknown ids are passed through; the provider is the authority.
		return Genre{ID: id, Name: query}, nil
	}

	for _, g := range Genres {
		if strings.EqualFold(g.Name, query) {
			return g, nil
		}
	}
	if id, ok := genreAliases[strings.ToLower(query)]; ok {
		g, _ := GenreByID(id)
		return g, nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), genreSource(Genres))
	if len(matches) == 0 {
		return Genre{}, fmt.Errorf("%w: %q", ErrUnknownGenre, query)
	}
	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		amb := &AmbiguousGenreError{Query: query}
		for _, m := range matches {
			if m.Score != matches[0].Score {
				break
			}
			amb.Candidates = append(amb.Candidates, Genres[m.Index])
		}
		sort.Slice(amb.Candidates, func(i, j int) bool {
			return amb.Candidates[i].Name < amb.Candidates[j].Name
		})
		return Genre{}, amb
	}
	return Genres[matches[0].Index], nil
}

// GenreByID looks a genre up in the catalogue.
func GenreByID(id int) (Genre, bool) {
	for _, g := range Genres {
		if g.ID == id {
			return g, true
		}
	}
	return Genre{}, false
}
