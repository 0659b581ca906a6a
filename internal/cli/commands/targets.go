package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcompat/internal/cli/output"
	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

type targetsJSON struct {
	Any     bool                  `json:"any"`
	Targets targets.EngineTargets `json:"targets"`
}

// NewTargetsCommand creates the targets command.
func NewTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "Show the resolved engine targets",
		Long: `Resolve the configured queries and engines and print the lowest
version required for each engine.

An empty result means any target: every feature is treated as native.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := loadTargets(cmd)
			if err != nil {
				return err
			}

			r := output.FromContext(cmd.Context())
			if r.Mode() == output.ModeJSON {
				return r.JSON(targetsJSON{Any: t.IsAnyTarget(), Targets: t})
			}
			if t.IsAnyTarget() {
				r.Println("any target: no engine floors configured")
				return nil
			}

			rows := make([][]string, 0, t.Len())
			for e, v := range t.All() {
				rows = append(rows, []string{e.String(), e.DisplayName(), v.String()})
			}
			return r.Table("targets", []string{"engine", "name", "minimum"}, rows)
		},
	}
}
