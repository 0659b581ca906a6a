// Package commands implements the leapcompat subcommands.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcompat/internal/config"
	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

// loadTargets resolves the targets configured for cmd.
func loadTargets(cmd *cobra.Command) (targets.EngineTargets, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)

	r, closeResolver, err := cfg.NewResolver(ctx, logger)
	if err != nil {
		return targets.EngineTargets{}, fmt.Errorf("resolver: %w", err)
	}
	defer func() {
		if err := closeResolver(); err != nil {
			logger.Warn("failed to close resolver", "error", err)
		}
	}()
	return cfg.Targets(ctx, r, logger)
}

// CheckFailedError reports features that the targets do not support natively.
type CheckFailedError struct {
	Features []targets.Feature
}

func (e *CheckFailedError) Error() string {
	names := make([]string, len(e.Features))
	for i, f := range e.Features {
		names[i] = f.String()
	}
	noun := "features need"
	if len(names) == 1 {
		noun = "feature needs"
	}
	return fmt.Sprintf("%d %s a transform: %s", len(names), noun, strings.Join(names, ", "))
}

func status(transform bool) string {
	if transform {
		return "transform"
	}
	return "native"
}
