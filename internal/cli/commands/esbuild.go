package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcompat/internal/cli/output"
	"github.com/leapstack-labs/leapcompat/pkg/esbuildtarget"
)

type esbuildJSON struct {
	Target      string   `json:"target"`
	Unsupported []string `json:"unsupported"`
}

// NewEsbuildCommand creates the esbuild command.
func NewEsbuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "esbuild",
		Short: "Print the targets as an esbuild --target value",
		Long: `Print the resolved targets in the form accepted by esbuild's --target
flag. Engines esbuild does not know are reported on stderr and left out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := loadTargets(cmd)
			if err != nil {
				return err
			}

			unsupported := []string{}
			for _, e := range esbuildtarget.Unsupported(t) {
				unsupported = append(unsupported, e.String())
			}

			r := output.FromContext(cmd.Context())
			if r.Mode() == output.ModeJSON {
				return r.JSON(esbuildJSON{
					Target:      esbuildtarget.TargetString(t),
					Unsupported: unsupported,
				})
			}

			for _, name := range unsupported {
				r.Warn("esbuild has no engine for %s; it is left out", name)
			}
			target := esbuildtarget.TargetString(t)
			if target == "" {
				target = "esnext"
			}
			r.Println(target)
			return nil
		},
	}
}
