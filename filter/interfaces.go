package filter

import (
	"github.com/s0up4200/favmovies/tmdb"
)

// Candidate is a movie as seen by a filter expression
type Candidate struct {
	Movie    tmdb.Movie
	Favorite bool
}

// Filter defines the basic interface for movie filters
type Filter interface {
	// Match checks if a movie satisfies the filter. Evaluation errors are
	// returned alongside a false match.
	Match(c Candidate) (bool, error)
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}
