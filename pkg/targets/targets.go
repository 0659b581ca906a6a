// Package targets resolves descriptions of execution environments into
// per-engine version floors and decides whether a language feature needs a
// compatibility transform for them.
//
// An EngineTargets value holds at most one floor per engine: the lowest
// version of that engine the output must run on. An engine that is absent is
// out of scope for the configuration. An empty value means "any target" and
// never forces a transform on its own.
//
// Values are owned by the configuration that built them. They are not safe
// for concurrent mutation; give each compilation unit its own [EngineTargets.Clone].
package targets

import (
	"iter"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapcompat/pkg/engine"
	"github.com/leapstack-labs/leapcompat/pkg/version"
)

// Pair is one raw (engine name, version) entry as produced by a query resolver.
type Pair struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// EngineTargets maps engines to version floors.
type EngineTargets struct {
	floors map[engine.Engine]version.Version
}

// New returns targets holding a copy of floors. Invalid engines are dropped.
func New(floors map[engine.Engine]version.Version) EngineTargets {
	t := EngineTargets{}
	for e, v := range floors {
		t.Set(e, v)
	}
	return t
}

// FromPairs builds targets from raw resolver output.
//
// Pairs whose name is not a known engine or alias, or whose version cannot be
// parsed, are skipped. When several pairs resolve to the same engine the
// lowest version wins. FromPairs never fails.
func FromPairs(pairs []Pair) EngineTargets {
	return FromPairsLogged(pairs, nil)
}

// FromPairsLogged is FromPairs with a debug record for every skipped pair.
// A nil logger discards.
func FromPairsLogged(pairs []Pair, logger *slog.Logger) EngineTargets {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var t EngineTargets
	for _, p := range pairs {
		e, ok := engine.ResolveAlias(p.Name)
		if !ok {
			logger.Debug("skipping target", "name", p.Name, "version", p.Version, "reason", "unknown_engine")
			continue
		}
		v, err := version.Parse(p.Version)
		if err != nil {
			logger.Debug("skipping target", "name", p.Name, "version", p.Version, "reason", "invalid_version")
			continue
		}
		t.Merge(e, v)
	}
	return t
}

// IsAnyTarget reports whether no engine is constrained.
func (t EngineTargets) IsAnyTarget() bool {
	return len(t.floors) == 0
}

// Len returns the number of constrained engines.
func (t EngineTargets) Len() int {
	return len(t.floors)
}

// Get returns the floor for e.
func (t EngineTargets) Get(e engine.Engine) (version.Version, bool) {
	v, ok := t.floors[e]
	return v, ok
}

// Set stores v as the floor for e, replacing any existing floor.
// Invalid engines are ignored.
func (t *EngineTargets) Set(e engine.Engine, v version.Version) {
	if !e.Valid() {
		return
	}
	if t.floors == nil {
		t.floors = make(map[engine.Engine]version.Version)
	}
	t.floors[e] = v
}

// Merge lowers the floor for e to v. It inserts e when absent and otherwise
// replaces the stored floor only if v is strictly lower. It reports whether
// the targets changed.
func (t *EngineTargets) Merge(e engine.Engine, v version.Version) bool {
	if !e.Valid() {
		return false
	}
	if cur, ok := t.floors[e]; ok && !v.Less(cur) {
		return false
	}
	t.Set(e, v)
	return true
}

// MergeTargets merges every floor of o into t and reports whether t changed.
func (t *EngineTargets) MergeTargets(o EngineTargets) bool {
	changed := false
	for e, v := range o.All() {
		if t.Merge(e, v) {
			changed = true
		}
	}
	return changed
}

// Delete removes e from the targets.
func (t *EngineTargets) Delete(e engine.Engine) {
	delete(t.floors, e)
}

// Engines returns the constrained engines in declaration order.
func (t EngineTargets) Engines() []engine.Engine {
	out := make([]engine.Engine, 0, len(t.floors))
	for _, e := range engine.All() {
		if _, ok := t.floors[e]; ok {
			out = append(out, e)
		}
	}
	return out
}

// All iterates over engines and floors in declaration order.
func (t EngineTargets) All() iter.Seq2[engine.Engine, version.Version] {
	return func(yield func(engine.Engine, version.Version) bool) {
		for _, e := range t.Engines() {
			if !yield(e, t.floors[e]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (t EngineTargets) Clone() EngineTargets {
	if t.floors == nil {
		return EngineTargets{}
	}
	c := EngineTargets{floors: make(map[engine.Engine]version.Version, len(t.floors))}
	for e, v := range t.floors {
		c.floors[e] = v
	}
	return c
}

// Equal reports whether t and o hold the same floors.
func (t EngineTargets) Equal(o EngineTargets) bool {
	if len(t.floors) != len(o.floors) {
		return false
	}
	for e, v := range t.floors {
		if ov, ok := o.floors[e]; !ok || ov != v {
			return false
		}
	}
	return true
}

// ShouldEnable reports whether a transform with the given native-support
// floors is needed for t.
//
// It is true as soon as one engine present in both t and required has a
// floor in t strictly below the floor in required. Engines that are absent
// from t are skipped rather than treated as unsupported, so an empty t is
// always false.
func (t EngineTargets) ShouldEnable(required EngineTargets) bool {
	for e, need := range required.floors {
		if have, ok := t.floors[e]; ok && have.Less(need) {
			return true
		}
	}
	return false
}

// String renders the floors as "chrome 80.0.0, node 18.0.0".
func (t EngineTargets) String() string {
	if t.IsAnyTarget() {
		return "any"
	}
	parts := make([]string, 0, len(t.floors))
	for e, v := range t.All() {
		parts = append(parts, e.String()+" "+v.String())
	}
	return strings.Join(parts, ", ")
}
