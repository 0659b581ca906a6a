// Package resolver provides targets.Resolver implementations.
//
// None of them understand query syntax. Static looks queries up in a
// precomputed table, Command delegates to an external browserslist-compatible
// executable, and Func adapts a plain function.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

// ErrUnknownQuery is returned by Static for a query it has no entry for.
var ErrUnknownQuery = errors.New("unknown query")

// Func adapts a function to targets.Resolver.
type Func func(ctx context.Context, query string) ([]targets.Pair, error)

// Resolve calls f.
func (f Func) Resolve(ctx context.Context, query string) ([]targets.Pair, error) {
	return f(ctx, query)
}

// ParseLine splits one "<name> <version>" line of resolver output.
func ParseLine(line string) (targets.Pair, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return targets.Pair{}, fmt.Errorf("malformed target line %q: want \"<name> <version>\"", line)
	}
	return targets.Pair{Name: fields[0], Version: fields[1]}, nil
}

// ParseLines parses newline-separated resolver output. Blank lines are skipped.
func ParseLines(out string) ([]targets.Pair, error) {
	var pairs []targets.Pair
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// normalizeQuery lowercases and collapses whitespace.
func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
