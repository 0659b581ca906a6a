package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapcompat/internal/cache"
	"github.com/leapstack-labs/leapcompat/pkg/resolver"
	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

// NewResolver builds the resolver selected by c.Resolver. It returns a nil
// resolver when no query is configured. The command resolver is wrapped in the
// query cache when it is enabled; close releases the cache and is never nil.
func (c *Config) NewResolver(ctx context.Context, logger *slog.Logger) (targets.Resolver, func() error, error) {
	noop := func() error { return nil }
	if len(c.AllQueries()) == 0 {
		return nil, noop, nil
	}

	switch c.Resolver.Kind {
	case ResolverStatic:
		s, err := resolver.LoadStatic(c.Resolver.File)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case ResolverCommand, "":
		cmd := resolver.NewCommand(c.Resolver.Command, c.Resolver.Timeout, logger)
		if !c.Cache.Enabled {
			return cmd, noop, nil
		}
		store, err := cache.Open(ctx, c.Cache.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("query cache: %w", err)
		}
		key := "command:" + strings.Join(cmd.Argv, " ")
		return cache.NewResolver(cmd, store, key, c.Cache.TTL, logger), store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown resolver kind %q", c.Resolver.Kind)
	}
}

// Targets resolves every configured source and merges them. Queries run
// concurrently; the first failure cancels the rest. An empty configuration
// yields the any-target set.
func (c *Config) Targets(ctx context.Context, r targets.Resolver, logger *slog.Logger) (targets.EngineTargets, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var result targets.EngineTargets
	if len(c.Engines) > 0 {
		explicit, err := targets.FromConfig(c.Engines)
		if err != nil {
			return targets.EngineTargets{}, fmt.Errorf("engines: %w", err)
		}
		result.MergeTargets(explicit)
	}

	queries := c.AllQueries()
	resolved := make([]targets.EngineTargets, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			t, err := targets.FromQueryLogged(gctx, r, q, logger)
			if err != nil {
				return err
			}
			logger.Debug("resolved query", "query", q, "targets", t.String())
			resolved[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return targets.EngineTargets{}, err
	}

	for _, t := range resolved {
		result.MergeTargets(t)
	}
	logger.Debug("targets ready", "sources", len(queries)+min(len(c.Engines), 1), "engines", result.Len())
	return result, nil
}
