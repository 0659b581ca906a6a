package targets

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcompat/pkg/engine"
	"github.com/leapstack-labs/leapcompat/pkg/version"
)

func v(s string) version.Version { return version.MustParse(s) }

func TestFromPairs(t *testing.T) {
	tests := []struct {
		name  string
		pairs []Pair
		want  map[engine.Engine]version.Version
	}{
		{
			name:  "empty",
			pairs: nil,
			want:  map[engine.Engine]version.Version{},
		},
		{
			name:  "minimum merge",
			pairs: []Pair{{"chrome", "90.0.0"}, {"chrome", "80.0.0"}},
			want:  map[engine.Engine]version.Version{engine.Chrome: v("80.0.0")},
		},
		{
			name:  "minimum merge keeps earlier lower",
			pairs: []Pair{{"chrome", "80.0.0"}, {"chrome", "90.0.0"}},
			want:  map[engine.Engine]version.Version{engine.Chrome: v("80.0.0")},
		},
		{
			name:  "unknown engine skipped",
			pairs: []Pair{{"bogus", "1.0.0"}, {"node", "18.0.0"}},
			want:  map[engine.Engine]version.Version{engine.Node: v("18.0.0")},
		},
		{
			name:  "invalid version skipped",
			pairs: []Pair{{"op_mini", "all"}, {"safari", "TP"}, {"safari", "17.1"}, {"firefox", ""}},
			want:  map[engine.Engine]version.Version{engine.Safari: v("17.1")},
		},
		{
			name: "aliases merge with canonical names",
			pairs: []Pair{
				{"chrome", "120"}, {"and_chr", "119"},
				{"firefox", "121"}, {"and_ff", "122"},
				{"ios_saf", "16.6-16.7"}, {"ios_saf", "17.0"},
				{"op_mob", "73"}, {"opera", "105"},
				{"ie_mob", "11"},
			},
			want: map[engine.Engine]version.Version{
				engine.Chrome:  v("119"),
				engine.Firefox: v("121"),
				engine.IOS:     v("16.6"),
				engine.Opera:   v("73"),
				engine.IE:      v("11"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPairs(tt.pairs)
			assert.True(t, New(tt.want).Equal(got), "got %s", got)
			assert.Equal(t, len(tt.want), got.Len())
		})
	}
}

func TestFromPairsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	got := FromPairsLogged([]Pair{{"bogus", "1"}, {"node", "latest"}, {"node", "20"}}, logger)

	assert.True(t, New(map[engine.Engine]version.Version{engine.Node: v("20")}).Equal(got))
	out := buf.String()
	assert.Contains(t, out, "reason=unknown_engine")
	assert.Contains(t, out, "reason=invalid_version")
	assert.Contains(t, out, "name=bogus")
}

func TestFromPairs_Idempotent(t *testing.T) {
	pairs := []Pair{{"chrome", "90"}, {"and_chr", "88"}, {"node", "18"}, {"safari", "15.4"}}

	got := FromPairs(pairs)
	before := got.Clone()

	for _, p := range pairs {
		e, ok := engine.ResolveAlias(p.Name)
		require.True(t, ok)
		assert.False(t, got.Merge(e, v(p.Version)), "%s %s is already covered", p.Name, p.Version)
	}
	assert.False(t, got.MergeTargets(FromPairs(pairs)), "merging the same pairs again should not change anything")
	assert.True(t, before.Equal(got))
}

func TestEngineTargets_IsAnyTarget(t *testing.T) {
	assert.True(t, EngineTargets{}.IsAnyTarget())
	assert.True(t, FromPairs(nil).IsAnyTarget())
	assert.True(t, FromPairs([]Pair{}).IsAnyTarget())
	assert.True(t, New(nil).IsAnyTarget())
	assert.True(t, New(map[engine.Engine]version.Version{}).IsAnyTarget())
	assert.True(t, FromPairs([]Pair{{"bogus", "1"}}).IsAnyTarget(), "only unknown entries means any target")

	assert.False(t, FromPairs([]Pair{{"node", "18"}}).IsAnyTarget())
	assert.False(t, New(map[engine.Engine]version.Version{engine.Chrome: v("1")}).IsAnyTarget())
}

func TestEngineTargets_Merge(t *testing.T) {
	var tg EngineTargets

	assert.True(t, tg.Merge(engine.Chrome, v("90")), "insert")
	assert.False(t, tg.Merge(engine.Chrome, v("95")), "higher version is ignored")
	assert.False(t, tg.Merge(engine.Chrome, v("90")), "equal version is ignored")
	assert.True(t, tg.Merge(engine.Chrome, v("80")), "lower version replaces")
	assert.False(t, tg.Merge(engine.Unknown, v("1")), "invalid engine is ignored")

	got, ok := tg.Get(engine.Chrome)
	require.True(t, ok)
	assert.Equal(t, v("80"), got)
	assert.Equal(t, 1, tg.Len())
}

func TestEngineTargets_SetAndDelete(t *testing.T) {
	var tg EngineTargets
	tg.Set(engine.Node, v("14"))
	tg.Set(engine.Node, v("18"))
	tg.Set(engine.Engine(99), v("1"))

	got, ok := tg.Get(engine.Node)
	require.True(t, ok)
	assert.Equal(t, v("18"), got, "Set overwrites")
	assert.Equal(t, 1, tg.Len())

	tg.Delete(engine.Node)
	assert.True(t, tg.IsAnyTarget())
	_, ok = tg.Get(engine.Node)
	assert.False(t, ok)
}

func TestEngineTargets_MergeTargets(t *testing.T) {
	a := New(map[engine.Engine]version.Version{engine.Chrome: v("90"), engine.Node: v("18")})
	b := New(map[engine.Engine]version.Version{engine.Chrome: v("80"), engine.Safari: v("15")})

	assert.True(t, a.MergeTargets(b))
	want := New(map[engine.Engine]version.Version{
		engine.Chrome: v("80"),
		engine.Node:   v("18"),
		engine.Safari: v("15"),
	})
	assert.True(t, want.Equal(a), "got %s", a)
	assert.False(t, a.MergeTargets(EngineTargets{}))
}

func TestEngineTargets_EnginesOrder(t *testing.T) {
	tg := FromPairs([]Pair{{"node", "18"}, {"android", "4.4"}, {"chrome", "90"}, {"ios_saf", "15"}})

	assert.Equal(t, []engine.Engine{engine.Chrome, engine.IOS, engine.Node, engine.Android}, tg.Engines())

	var seen []engine.Engine
	for e := range tg.All() {
		seen = append(seen, e)
		if e == engine.IOS {
			break
		}
	}
	assert.Equal(t, []engine.Engine{engine.Chrome, engine.IOS}, seen, "iteration should stop early")
	assert.Equal(t, "chrome 90.0.0, ios 15.0.0, node 18.0.0, android 4.4.0", tg.String())
	assert.Equal(t, "any", EngineTargets{}.String())
}

func TestEngineTargets_Clone(t *testing.T) {
	orig := New(map[engine.Engine]version.Version{engine.Chrome: v("90")})
	c := orig.Clone()
	c.Merge(engine.Chrome, v("70"))
	c.Set(engine.Node, v("18"))

	got, _ := orig.Get(engine.Chrome)
	assert.Equal(t, v("90"), got, "clone must not alias the original")
	assert.Equal(t, 1, orig.Len())

	empty := EngineTargets{}.Clone()
	empty.Set(engine.Deno, v("1"))
	assert.Equal(t, 1, empty.Len())
}

func TestNew_CopiesInput(t *testing.T) {
	in := map[engine.Engine]version.Version{engine.Chrome: v("90"), engine.Unknown: v("1")}
	tg := New(in)
	in[engine.Chrome] = v("1")

	got, _ := tg.Get(engine.Chrome)
	assert.Equal(t, v("90"), got)
	assert.Equal(t, 1, tg.Len(), "invalid engines are dropped")
}

func TestEngineTargets_Equal(t *testing.T) {
	a := FromPairs([]Pair{{"chrome", "90"}})
	assert.True(t, a.Equal(FromPairs([]Pair{{"and_chr", "90"}})))
	assert.False(t, a.Equal(FromPairs([]Pair{{"chrome", "91"}})))
	assert.False(t, a.Equal(FromPairs([]Pair{{"firefox", "90"}})))
	assert.False(t, a.Equal(EngineTargets{}))
	assert.True(t, EngineTargets{}.Equal(New(nil)))
}

func TestEngineTargets_ShouldEnable(t *testing.T) {
	tests := []struct {
		name     string
		self     map[engine.Engine]version.Version
		required map[engine.Engine]version.Version
		want     bool
	}{
		{
			name:     "self below required",
			self:     map[engine.Engine]version.Version{engine.Chrome: v("80.0.0")},
			required: map[engine.Engine]version.Version{engine.Chrome: v("90.0.0")},
			want:     true,
		},
		{
			name:     "self above required",
			self:     map[engine.Engine]version.Version{engine.Chrome: v("90.0.0")},
			required: map[engine.Engine]version.Version{engine.Chrome: v("80.0.0")},
			want:     false,
		},
		{
			name:     "equal floors",
			self:     map[engine.Engine]version.Version{engine.Chrome: v("80.0.0")},
			required: map[engine.Engine]version.Version{engine.Chrome: v("80.0.0")},
			want:     false,
		},
		{
			name:     "any target never forces",
			self:     map[engine.Engine]version.Version{},
			required: map[engine.Engine]version.Version{engine.Chrome: v("1.0.0")},
			want:     false,
		},
		{
			name:     "engine absent from self is skipped",
			self:     map[engine.Engine]version.Version{engine.Firefox: v("10.0.0")},
			required: map[engine.Engine]version.Version{engine.Chrome: v("1.0.0")},
			want:     false,
		},
		{
			name:     "engine absent from required is skipped",
			self:     map[engine.Engine]version.Version{engine.IE: v("11")},
			required: map[engine.Engine]version.Version{engine.Chrome: v("50")},
			want:     false,
		},
		{
			name: "one old engine is enough",
			self: map[engine.Engine]version.Version{
				engine.Chrome: v("120"),
				engine.Safari: v("13"),
			},
			required: map[engine.Engine]version.Version{
				engine.Chrome: v("80"),
				engine.Safari: v("13.1"),
			},
			want: true,
		},
		{
			name:     "empty requirement",
			self:     map[engine.Engine]version.Version{engine.Node: v("0.10")},
			required: map[engine.Engine]version.Version{},
			want:     false,
		},
		{
			name:     "minor and patch are compared",
			self:     map[engine.Engine]version.Version{engine.Node: v("16.8.9")},
			required: map[engine.Engine]version.Version{engine.Node: v("16.9")},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.self).ShouldEnable(New(tt.required))
			assert.Equal(t, tt.want, got)
		})
	}
}
