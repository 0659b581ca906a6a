package config

import (
	"github.com/leapstack-labs/leapcompat/internal/cache"
	"github.com/leapstack-labs/leapcompat/pkg/resolver"
)

// Default configuration values.
const (
	DefaultResolver = ResolverCommand
	DefaultOutput   = OutputAuto
	DefaultTimeout  = resolver.DefaultTimeout
	DefaultCacheTTL = cache.DefaultTTL
)

// DefaultCachePath is relative to the config file directory, or to the
// working directory when no config file is found.
const DefaultCachePath = ".leapcompat/cache.db"

// defaults is loaded first, below every other source.
func defaults() map[string]any {
	return map[string]any{
		"resolver.kind":    DefaultResolver,
		"resolver.timeout": DefaultTimeout.String(),
		"cache.enabled":    true,
		"cache.path":       DefaultCachePath,
		"cache.ttl":        DefaultCacheTTL.String(),
		"output":           DefaultOutput,
		"verbose":          false,
	}
}

// ApplyDefaults fills unset values on a Config built without Load.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.Resolver.Kind == "" {
		c.Resolver.Kind = DefaultResolver
	}
	if c.Resolver.Timeout == 0 {
		c.Resolver.Timeout = DefaultTimeout
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
}
