package resolver

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

// Static resolves queries from a fixed table, e.g. a snapshot of browserslist
// output checked into a repository.
type Static struct {
	queries map[string][]targets.Pair
}

// NewStatic returns a Static resolver. Query keys are matched
// case-insensitively with whitespace collapsed.
func NewStatic(queries map[string][]targets.Pair) *Static {
	s := &Static{queries: make(map[string][]targets.Pair, len(queries))}
	for q, pairs := range queries {
		s.queries[normalizeQuery(q)] = append([]targets.Pair(nil), pairs...)
	}
	return s
}

// staticFile is the on-disk snapshot format:
//
//	queries:
//	  defaults:
//	    - chrome 120
//	    - ios_saf 17.0-17.1
type staticFile struct {
	Queries map[string][]string `yaml:"queries"`
}

// LoadStatic reads a YAML snapshot from path.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query snapshot: %w", err)
	}
	return ParseStatic(data)
}

// ParseStatic decodes a YAML snapshot.
func ParseStatic(data []byte) (*Static, error) {
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse query snapshot: %w", err)
	}

	queries := make(map[string][]targets.Pair, len(f.Queries))
	for q, lines := range f.Queries {
		pairs := make([]targets.Pair, 0, len(lines))
		for _, line := range lines {
			p, err := ParseLine(line)
			if err != nil {
				return nil, fmt.Errorf("query %q: %w", q, err)
			}
			pairs = append(pairs, p)
		}
		queries[q] = pairs
	}
	return NewStatic(queries), nil
}

// Resolve returns the pairs recorded for query.
func (s *Static) Resolve(ctx context.Context, query string) ([]targets.Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pairs, ok := s.queries[normalizeQuery(query)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownQuery, query)
	}
	return append([]targets.Pair(nil), pairs...), nil
}

// Queries returns the known queries, normalized and sorted.
func (s *Static) Queries() []string {
	out := make([]string, 0, len(s.queries))
	for q := range s.queries {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}
