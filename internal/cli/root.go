// Package cli provides the command-line interface for leapcompat.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcompat/internal/cli/commands"
	"github.com/leapstack-labs/leapcompat/internal/cli/output"
	"github.com/leapstack-labs/leapcompat/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitCheckFailed = 1 // check found features that need a transform
	ExitError       = 2
)

// commands that run without loading configuration.
var skipConfig = map[string]bool{
	"help":             true,
	"completion":       true,
	"__complete":       true,
	"__completeNoDesc": true,
	"version":          true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "leapcompat",
		Short: "leapcompat - JavaScript engine targets and feature gating",
		Long: `leapcompat resolves browserslist queries and explicit engine versions into
engine targets, then answers which ECMAScript features need a transform
for those targets.

Targets from every source are merged by keeping the lowest version per
engine. With no source configured every feature is treated as native.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig[cmd.Name()] {
				return nil
			}

			cfg, err := config.Load(config.LoadOptions{
				File:  cfgFile,
				Flags: cmd.Root().PersistentFlags(),
			})
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.FileUsed != "" {
				logger.Debug("using config file", "path", cfg.FileUsed)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			ctx = output.WithRenderer(ctx, output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)))
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: leapcompat.yaml, searched upward)")
	pf.StringP("query", "q", "", "browserslist query, e.g. \"defaults, not dead\"")
	pf.StringArrayP("engine", "e", nil, "engine floor as name=version (repeatable)")
	pf.String("resolver", "", "query resolver (command|static)")
	pf.String("resolver-file", "", "query snapshot for the static resolver")
	pf.StringSlice("resolver-command", nil, "command for the command resolver; the query is appended")
	pf.Duration("resolver-timeout", 0, "timeout for one resolver command")
	pf.Bool("no-cache", false, "do not use the query cache")
	pf.Duration("cache-ttl", 0, "how long cached query results stay fresh")
	pf.StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	pf.BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputAuto, config.OutputText, config.OutputMarkdown, config.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("resolver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.ResolverCommand, config.ResolverStatic}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}))
	rootCmd.AddCommand(commands.NewTargetsCommand())
	rootCmd.AddCommand(commands.NewFeaturesCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewEnginesCommand())
	rootCmd.AddCommand(commands.NewEsbuildCommand())
	rootCmd.AddCommand(commands.NewCacheCommand())

	return rootCmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	var checkErr *commands.CheckFailedError
	if errors.As(err, &checkErr) {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitCheckFailed
	}
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}

// Main runs leapcompat with the process arguments.
func Main() int {
	return Execute(os.Args[1:], os.Stdout, os.Stderr)
}
