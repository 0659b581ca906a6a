package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcompat/internal/cache"
	"github.com/leapstack-labs/leapcompat/internal/cli/output"
	"github.com/leapstack-labs/leapcompat/internal/config"
	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

type cacheEntryJSON struct {
	Resolver   string         `json:"resolver"`
	Query      string         `json:"query"`
	Pairs      []targets.Pair `json:"pairs"`
	ResolvedAt time.Time      `json:"resolved_at"`
}

type cacheListJSON struct {
	Path          string           `json:"path"`
	SchemaVersion int64            `json:"schema_version"`
	Entries       []cacheEntryJSON `json:"entries"`
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the query cache",
		Long: `The command resolver caches query results in a SQLite database
(cache.path, default .leapcompat/cache.db next to the config file).`,
	}
	cmd.AddCommand(newCacheListCommand(), newCacheClearCommand())
	return cmd
}

// openCache opens the configured cache. A missing database is reported as
// (nil, nil) so read-only commands do not create one.
func openCache(cmd *cobra.Command) (*cache.Store, error) {
	cfg := config.FromContext(cmd.Context())
	if _, err := os.Stat(cfg.Cache.Path); os.IsNotExist(err) {
		return nil, nil
	}
	return cache.Open(cmd.Context(), cfg.Cache.Path)
}

func newCacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			path := config.FromContext(cmd.Context()).Cache.Path
			var (
				entries []cache.Entry
				schema  int64
			)
			if store != nil {
				defer func() { _ = store.Close() }()
				path = store.Path()
				if schema, err = store.MigrationVersion(cmd.Context()); err != nil {
					return fmt.Errorf("failed to read cache schema version: %w", err)
				}
				if entries, err = store.Entries(cmd.Context()); err != nil {
					return err
				}
			}

			r := output.FromContext(cmd.Context())
			if r.Mode() == output.ModeJSON {
				list := cacheListJSON{Path: path, SchemaVersion: schema, Entries: make([]cacheEntryJSON, len(entries))}
				for i, e := range entries {
					list.Entries[i] = cacheEntryJSON(e)
				}
				return r.JSON(list)
			}
			if len(entries) == 0 {
				r.Println("cache is empty")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{e.Query, e.Resolver, fmt.Sprint(len(e.Pairs)), e.ResolvedAt.Local().Format(time.DateTime)}
			}
			if err := r.Table("cached queries", []string{"query", "resolver", "targets", "resolved"}, rows); err != nil {
				return err
			}
			r.Println(fmt.Sprintf("%s (schema version %d)", path, schema))
			return nil
		},
	}
}

func newCacheClearCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			r := output.FromContext(cmd.Context())
			if store == nil {
				r.Println("removed 0 entries")
				return nil
			}
			defer func() { _ = store.Close() }()

			var cutoff time.Time
			if olderThan > 0 {
				cutoff = time.Now().Add(-olderThan)
			}
			n, err := store.Purge(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			r.Println(fmt.Sprintf("removed %d entries", n))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "only delete entries older than this")
	return cmd
}
