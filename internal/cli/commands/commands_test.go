package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcompat/internal/cache"
	"github.com/leapstack-labs/leapcompat/internal/cli/output"
	"github.com/leapstack-labs/leapcompat/internal/cli/testutil"
	"github.com/leapstack-labs/leapcompat/internal/config"
	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

// loadProject writes a test project with extra config and loads it.
func loadProject(t *testing.T, extra string) *config.Config {
	t.Helper()
	path := testutil.SetupTestProject(t, extra)
	cfg, err := config.Load(config.LoadOptions{File: path, Environ: []string{}})
	require.NoError(t, err)
	return cfg
}

func run(t *testing.T, cmd *cobra.Command, cfg *config.Config, mode output.Mode, args ...string) (*testutil.TestRenderer, error) {
	t.Helper()
	tr := testutil.NewTestRenderer(mode)
	ctx := config.WithConfig(context.Background(), cfg)
	ctx = output.WithRenderer(ctx, tr.Renderer)

	if args == nil {
		args = []string{} // nil makes cobra read os.Args
	}
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(tr.Out)
	cmd.SetErr(tr.ErrOut)
	err := cmd.ExecuteContext(ctx)
	return tr, err
}

func TestTargetsCommand(t *testing.T) {
	cfg := loadProject(t, "query: defaults\nengines:\n  node: 18\n")

	t.Run("markdown", func(t *testing.T) {
		tr, err := run(t, NewTargetsCommand(), cfg, output.ModeMarkdown)
		require.NoError(t, err)

		out := tr.Output()
		testutil.AssertNoANSI(t, out)
		assert.Contains(t, out, "## Targets")
		assert.Contains(t, out, "| chrome ")
		assert.Contains(t, out, "119.0.0")
		assert.Contains(t, out, "16.6.0")
		assert.Contains(t, out, "18.0.0")
		assert.NotContains(t, out, "op_mini")
	})

	t.Run("json", func(t *testing.T) {
		tr, err := run(t, NewTargetsCommand(), cfg, output.ModeJSON)
		require.NoError(t, err)

		var got struct {
			Any     bool                  `json:"any"`
			Targets targets.EngineTargets `json:"targets"`
		}
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		assert.False(t, got.Any)
		assert.Equal(t,
			"chrome 119.0.0, edge 120.0.0, firefox 121.0.0, ios 16.6.0, node 18.0.0, safari 17.1.0, samsung 23.0.0",
			got.Targets.String())
	})

	t.Run("any target", func(t *testing.T) {
		tr, err := run(t, NewTargetsCommand(), loadProject(t, ""), output.ModeText)
		require.NoError(t, err)
		assert.Contains(t, tr.Output(), "any target")
	})
}

func TestTargetsCommand_Errors(t *testing.T) {
	t.Run("unknown query", func(t *testing.T) {
		_, err := run(t, NewTargetsCommand(), loadProject(t, "query: not dead\n"), output.ModeText)
		var qe *targets.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "not dead", qe.Query)
	})

	t.Run("alias in engines map", func(t *testing.T) {
		_, err := run(t, NewTargetsCommand(), loadProject(t, "engines:\n  ios_saf: 15\n"), output.ModeText)
		var ce *targets.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "ios_saf", ce.Key)
	})

	t.Run("rejects arguments", func(t *testing.T) {
		_, err := run(t, NewTargetsCommand(), loadProject(t, ""), output.ModeText, "extra")
		assert.Error(t, err)
	})
}

func TestFeaturesCommand(t *testing.T) {
	cfg := loadProject(t, "query: defaults\n")

	t.Run("all", func(t *testing.T) {
		tr, err := run(t, NewFeaturesCommand(), cfg, output.ModeJSON)
		require.NoError(t, err)

		var got []featureJSON
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		require.Len(t, got, len(targets.Features()))

		byName := make(map[string]featureJSON, len(got))
		for _, f := range got {
			byName[f.Name] = f
		}
		assert.False(t, byName["es2020-nullish-coalescing-operator"].Transform)
		assert.False(t, byName["es2022-class-static-block"].Transform)
		assert.True(t, byName["es2024-unicode-sets-regex"].Transform, "ios 16.6 lacks the v flag")
		assert.True(t, byName["es2025-regexp-modifiers"].Transform)
		assert.Equal(t, "ES2025", byName["es2025-regexp-modifiers"].Edition)
	})

	t.Run("required only", func(t *testing.T) {
		tr, err := run(t, NewFeaturesCommand(), cfg, output.ModeMarkdown, "--required")
		require.NoError(t, err)

		out := tr.Output()
		assert.Contains(t, out, "es2025-regexp-modifiers")
		assert.Contains(t, out, "transform")
		assert.NotContains(t, out, "es2015-arrow-functions")
		assert.NotContains(t, out, "native")
	})

	t.Run("any target needs nothing", func(t *testing.T) {
		tr, err := run(t, NewFeaturesCommand(), loadProject(t, ""), output.ModeText, "--required")
		require.NoError(t, err)
		assert.Contains(t, tr.Output(), "no transforms needed")

		tr, err = run(t, NewFeaturesCommand(), loadProject(t, ""), output.ModeJSON, "--required")
		require.NoError(t, err)
		assert.JSONEq(t, "[]", tr.Output())
	})
}

func TestCheckCommand(t *testing.T) {
	cfg := loadProject(t, "query: node 12\n")

	t.Run("all native", func(t *testing.T) {
		tr, err := run(t, NewCheckCommand(), cfg, output.ModeText, "es2015-classes", "es2022-class-properties")
		require.NoError(t, err)
		assert.Equal(t, "es2015-classes: native\nes2022-class-properties: native\n", tr.Output())
	})

	t.Run("needs transform", func(t *testing.T) {
		tr, err := run(t, NewCheckCommand(), cfg, output.ModeText, "es2015-classes", "es2020-optional-chaining", "es2020-nullish-coalescing-operator")
		var ce *CheckFailedError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, []targets.Feature{targets.ES2020OptionalChaining, targets.ES2020NullishCoalescingOperator}, ce.Features)
		assert.Equal(t, "2 features need a transform: es2020-optional-chaining, es2020-nullish-coalescing-operator", ce.Error())
		assert.Contains(t, tr.Output(), "es2020-optional-chaining: transform")
	})

	t.Run("json", func(t *testing.T) {
		tr, err := run(t, NewCheckCommand(), cfg, output.ModeJSON, "es2020-optional-chaining")
		require.Error(t, err)
		assert.EqualError(t, err, "1 feature needs a transform: es2020-optional-chaining")
		assert.JSONEq(t, `[{"name": "es2020-optional-chaining", "edition": "ES2020", "transform": true}]`, tr.Output())
	})

	t.Run("unknown feature", func(t *testing.T) {
		_, err := run(t, NewCheckCommand(), cfg, output.ModeText, "es2099-teleport")
		assert.ErrorIs(t, err, targets.ErrUnknownFeature)
	})

	t.Run("needs an argument", func(t *testing.T) {
		_, err := run(t, NewCheckCommand(), cfg, output.ModeText)
		assert.Error(t, err)
	})
}

func TestEnginesCommand(t *testing.T) {
	tr, err := run(t, NewEnginesCommand(), &config.Config{}, output.ModeJSON)
	require.NoError(t, err)

	var got []engineJSON
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	require.NotEmpty(t, got)

	byName := make(map[string]engineJSON, len(got))
	for _, e := range got {
		byName[e.Name] = e
	}
	assert.Equal(t, []string{"ios_saf"}, byName["ios"].Aliases)
	assert.True(t, byName["ios"].Esbuild)
	assert.False(t, byName["samsung"].Esbuild)
	assert.NotNil(t, byName["deno"].Aliases)

	tr, err = run(t, NewEnginesCommand(), &config.Config{}, output.ModeMarkdown)
	require.NoError(t, err)
	assert.Contains(t, tr.Output(), "and_chr")
}

func TestEsbuildCommand(t *testing.T) {
	cfg := loadProject(t, "query: defaults\n")

	tr, err := run(t, NewEsbuildCommand(), cfg, output.ModeText)
	require.NoError(t, err)
	assert.Equal(t, "chrome119,edge120,firefox121,ios16.6,safari17.1\n", tr.Output())
	assert.Contains(t, tr.ErrorOutput(), "esbuild has no engine for samsung")

	tr, err = run(t, NewEsbuildCommand(), cfg, output.ModeJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"target": "chrome119,edge120,firefox121,ios16.6,safari17.1", "unsupported": ["samsung"]}`, tr.Output())

	tr, err = run(t, NewEsbuildCommand(), loadProject(t, ""), output.ModeText)
	require.NoError(t, err)
	assert.Equal(t, "esnext\n", tr.Output())
}

func TestCacheCommands(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Cache: config.CacheConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "cache.db")}}

	t.Run("missing database", func(t *testing.T) {
		tr, err := run(t, NewCacheCommand(), cfg, output.ModeText, "list")
		require.NoError(t, err)
		assert.Contains(t, tr.Output(), "cache is empty")
		assert.NoFileExists(t, cfg.Cache.Path)
	})

	store, err := cache.Open(ctx, cfg.Cache.Path)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, store.Put(ctx, cache.Entry{Resolver: "command:browserslist", Query: "defaults", Pairs: []targets.Pair{{Name: "chrome", Version: "119"}}, ResolvedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Put(ctx, cache.Entry{Resolver: "command:browserslist", Query: "node 18", Pairs: []targets.Pair{{Name: "node", Version: "18.0.0"}}, ResolvedAt: now}))
	require.NoError(t, store.Close())

	t.Run("list", func(t *testing.T) {
		tr, err := run(t, NewCacheCommand(), cfg, output.ModeJSON, "list")
		require.NoError(t, err)

		var got cacheListJSON
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		assert.Equal(t, cfg.Cache.Path, got.Path)
		assert.Equal(t, int64(1), got.SchemaVersion)
		require.Len(t, got.Entries, 2)
		assert.Equal(t, "defaults", got.Entries[0].Query)
		assert.Equal(t, []targets.Pair{{Name: "node", Version: "18.0.0"}}, got.Entries[1].Pairs)
	})

	t.Run("list text", func(t *testing.T) {
		tr, err := run(t, NewCacheCommand(), cfg, output.ModeText, "list")
		require.NoError(t, err)
		out := tr.Output()
		assert.Contains(t, out, "node 18")
		assert.Contains(t, out, cfg.Cache.Path+" (schema version 1)")
	})

	t.Run("clear older than", func(t *testing.T) {
		tr, err := run(t, NewCacheCommand(), cfg, output.ModeText, "clear", "--older-than", "24h")
		require.NoError(t, err)
		assert.Equal(t, "removed 1 entries\n", tr.Output())
	})

	t.Run("clear all", func(t *testing.T) {
		tr, err := run(t, NewCacheCommand(), cfg, output.ModeText, "clear")
		require.NoError(t, err)
		assert.Equal(t, "removed 1 entries\n", tr.Output())
	})
}
