package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcompat/internal/cli/output"
	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <feature>...",
		Short: "Check whether features run natively on the targets",
		Long: `Check each named feature against the resolved targets.

The command fails when at least one feature needs a transform, so it can
gate CI jobs. Run "leapcompat features" for the list of feature names.`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			var names []string
			for _, f := range targets.Features() {
				names = append(names, f.String())
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			features := make([]targets.Feature, len(args))
			for i, a := range args {
				f, err := targets.ParseFeature(a)
				if err != nil {
					return err
				}
				features[i] = f
			}

			t, err := loadTargets(cmd)
			if err != nil {
				return err
			}

			var failed []targets.Feature
			list := make([]featureJSON, len(features))
			for i, f := range features {
				transform := t.HasFeature(f)
				if transform {
					failed = append(failed, f)
				}
				list[i] = featureJSON{Name: f.String(), Edition: f.Edition(), Transform: transform}
			}

			r := output.FromContext(cmd.Context())
			if r.Mode() == output.ModeJSON {
				if err := r.JSON(list); err != nil {
					return err
				}
			} else {
				for _, f := range list {
					r.Println(f.Name + ": " + status(f.Transform))
				}
			}

			if len(failed) > 0 {
				return &CheckFailedError{Features: failed}
			}
			return nil
		},
	}
}
