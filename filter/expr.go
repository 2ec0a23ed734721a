package filter

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/s0up4200/favmovies/tmdb"
)

// DefaultCacheSize is the number of compiled expressions kept by default
const DefaultCacheSize = 64

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	compiler   *ExprCompiler
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*ExprCompiler)

// WithCache sets the size of the compiled expression cache. Zero disables it.
func WithCache(size int) ExprCompilerOption {
	return func(c *ExprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[*exprFilter](size)
		} else {
			c.cache = nil
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *ExprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) *ExprCompiler {
	c := &ExprCompiler{
		helperFuncs: helperFunctions(),
		cache:       newLRUCache[*exprFilter](DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExprCompiler compiles expressions with expr and caches the programs
type ExprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[*exprFilter]
}

var _ Compiler = (*ExprCompiler)(nil)

// Compile compiles an expression into an executable filter. Unknown
// identifiers and non-boolean results are compile errors.
func (c *ExprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.environment(Candidate{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{expression: expression, program: program, compiler: c}
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}
	return filter, nil
}

// Clear removes all cached filters
func (c *ExprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *ExprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// environment builds the variables visible to an expression
func (c *ExprCompiler) environment(cand Candidate) map[string]any {
	env := make(map[string]any, len(c.helperFuncs)+6)
	maps.Copy(env, c.helperFuncs)

	env["ID"] = cand.Movie.ID
	env["Title"] = cand.Movie.Title
	env["PosterPath"] = cand.Movie.PosterPath
	env["HasPoster"] = cand.Movie.HasPoster()
	env["Favorite"] = cand.Favorite
	env["Movie"] = cand.Movie
	return env
}

// Match evaluates the filter against a movie
func (f *exprFilter) Match(cand Candidate) (bool, error) {
	result, err := expr.Run(f.program, f.compiler.environment(cand))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieID:    cand.Movie.ID,
			MovieTitle: cand.Movie.Title,
			Err:        err,
		}
	}
	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// helperFunctions creates the helper functions available to every expression
func helperFunctions() map[string]any {
	return map[string]any{
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

// Apply returns the movies matching filter. Movies whose evaluation fails are
// logged and treated as non-matching.
func Apply(filter Filter, movies []tmdb.Movie, favorites []tmdb.Movie, logger zerolog.Logger) []tmdb.Movie {
	favIDs := make(map[int]struct{}, len(favorites))
	for _, m := range favorites {
		favIDs[m.ID] = struct{}{}
	}

	matched := make([]tmdb.Movie, 0, len(movies))
	for _, m := range movies {
		_, fav := favIDs[m.ID]
		ok, err := filter.Match(Candidate{Movie: m, Favorite: fav})
		if err != nil {
			logger.Debug().Err(err).Int("movie_id", m.ID).Msg("Filter evaluation failed")
			continue
		}
		if ok {
			matched = append(matched, m)
		}
	}
	return matched
}

// CompileFilter compiles an expression with a fresh compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return NewExprCompiler(WithCache(0)).Compile(expression)
}
