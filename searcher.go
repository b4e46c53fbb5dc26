package discussx

import "context"

// Searcher defines the core discussion search interface.
type Searcher interface {
	// Search executes a search with the given query expression and options.
	Search(ctx context.Context, query Expression, opts ...SearchOption) (*Results, error)
}

// SearcherFunc is a function type that implements the Searcher interface.
// This allows using a function as a Searcher, similar to http.HandlerFunc.
type SearcherFunc func(context.Context, Expression, ...SearchOption) (*Results, error)

// Search implements the Searcher interface for SearcherFunc.
func (f SearcherFunc) Search(ctx context.Context, query Expression, opts ...SearchOption) (*Results, error) {
	return f(ctx, query, opts...)
}

// Preflighter is implemented by searchers that must validate their
// configuration before any query is issued. A Preflight error is fatal for
// the whole pipeline run.
type Preflighter interface {
	Preflight(ctx context.Context) error
}
