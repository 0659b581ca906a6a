package targets

import (
	"context"
	"log/slog"
)

// Resolver turns a target query ("defaults", "last 2 versions", ...) into raw
// engine/version pairs. The query grammar belongs to the resolver.
type Resolver interface {
	Resolve(ctx context.Context, query string) ([]Pair, error)
}

// FromQuery resolves query with r and merges the result like FromPairs.
// Resolver failures are returned as *QueryError.
func FromQuery(ctx context.Context, r Resolver, query string) (EngineTargets, error) {
	return FromQueryLogged(ctx, r, query, nil)
}

// FromQueryLogged is FromQuery with skipped pairs logged like FromPairsLogged.
// A nil logger discards.
func FromQueryLogged(ctx context.Context, r Resolver, query string, logger *slog.Logger) (EngineTargets, error) {
	if r == nil {
		return EngineTargets{}, &QueryError{Query: query, Err: ErrNoResolver}
	}
	pairs, err := r.Resolve(ctx, query)
	if err != nil {
		return EngineTargets{}, &QueryError{Query: query, Err: err}
	}
	if logger == nil {
		return FromPairs(pairs), nil
	}
	return FromPairsLogged(pairs, logger.With("query", query)), nil
}
