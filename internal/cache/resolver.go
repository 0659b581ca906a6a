package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

// DefaultTTL is how long a cached query result stays fresh.
const DefaultTTL = 24 * time.Hour

// Resolver serves queries from a Store and falls through to Next on a miss
// or an expired entry. Write failures are logged, not returned.
type Resolver struct {
	Next   targets.Resolver
	Store  *Store
	Key    string // identifies Next, so different resolvers do not share entries
	TTL    time.Duration
	Logger *slog.Logger
	Now    func() time.Time
}

// NewResolver wraps next with store. A non-positive ttl uses DefaultTTL.
func NewResolver(next targets.Resolver, store *Store, key string, ttl time.Duration, logger *slog.Logger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{Next: next, Store: store, Key: key, TTL: ttl, Logger: logger, Now: time.Now}
}

// Resolve implements targets.Resolver.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]targets.Pair, error) {
	query = strings.TrimSpace(query)
	now := r.Now()

	entry, ok, err := r.Store.Get(ctx, r.Key, query)
	switch {
	case err != nil:
		r.Logger.Warn("cache read failed", "query", query, "error", err)
	case ok && now.Sub(entry.ResolvedAt) < r.TTL:
		r.Logger.Debug("cache hit", "query", query, "age", now.Sub(entry.ResolvedAt).Round(time.Second))
		return entry.Pairs, nil
	case ok:
		r.Logger.Debug("cache entry expired", "query", query)
	}

	pairs, err := r.Next.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := r.Store.Put(ctx, Entry{Resolver: r.Key, Query: query, Pairs: pairs, ResolvedAt: now}); err != nil {
		r.Logger.Warn("cache write failed", "query", query, "error", err)
	}
	return pairs, nil
}
