// Package config loads leapcompat configuration.
//
// A configuration names its targets in up to three ways, all of which may be
// combined: a single query, a list of queries and an explicit engine map.
// The resolved targets are the minimum-merge of every source.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Resolver kinds.
const (
	ResolverCommand = "command" // run a browserslist-compatible executable
	ResolverStatic  = "static"  // look queries up in a YAML snapshot
)

// Output modes.
const (
	OutputAuto     = "auto"
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)

// ResolverConfig selects how queries are resolved.
type ResolverConfig struct {
	Kind    string        `koanf:"kind"`
	File    string        `koanf:"file"`    // snapshot path for the static resolver
	Command []string      `koanf:"command"` // argv for the command resolver; the query is appended
	Timeout time.Duration `koanf:"timeout"`
}

// CacheConfig controls the on-disk query cache. Only the command resolver is
// cached.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Path    string        `koanf:"path"`
	TTL     time.Duration `koanf:"ttl"`
}

// Config holds all configuration options.
type Config struct {
	Query    string         `koanf:"query"`
	Queries  []string       `koanf:"queries"`
	Engines  map[string]any `koanf:"engines"` // canonical engine name -> version
	Resolver ResolverConfig `koanf:"resolver"`
	Cache    CacheConfig    `koanf:"cache"`
	Output   string         `koanf:"output"`
	Verbose  bool           `koanf:"verbose"`

	// FileUsed is the config file that was loaded, if any.
	FileUsed string `koanf:"-"`
}

// AllQueries returns Query followed by Queries, trimmed, without blanks or
// duplicates.
func (c *Config) AllQueries() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range append([]string{c.Query}, c.Queries...) {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// Validate checks option values. Engine keys and versions are checked when
// targets are built.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputAuto, OutputText, OutputMarkdown, OutputJSON:
	default:
		return fmt.Errorf("invalid output %q: want one of auto, text, markdown, json", c.Output)
	}

	switch c.Resolver.Kind {
	case ResolverCommand:
	case ResolverStatic:
		if c.Resolver.File == "" && len(c.AllQueries()) > 0 {
			return fmt.Errorf("resolver.file is required for the static resolver")
		}
	default:
		return fmt.Errorf("unknown resolver kind %q: want command or static", c.Resolver.Kind)
	}

	if c.Resolver.Timeout < 0 {
		return fmt.Errorf("resolver.timeout must not be negative")
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required when the cache is enabled")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}
