package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcompat/internal/cli/output"
	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

type featureJSON struct {
	Name      string `json:"name"`
	Edition   string `json:"edition"`
	Transform bool   `json:"transform"`
}

// NewFeaturesCommand creates the features command.
func NewFeaturesCommand() *cobra.Command {
	var requiredOnly bool

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List language features and whether the targets need them transformed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := loadTargets(cmd)
			if err != nil {
				return err
			}

			var list []featureJSON
			for _, f := range targets.Features() {
				transform := t.HasFeature(f)
				if requiredOnly && !transform {
					continue
				}
				list = append(list, featureJSON{Name: f.String(), Edition: f.Edition(), Transform: transform})
			}

			r := output.FromContext(cmd.Context())
			if r.Mode() == output.ModeJSON {
				if list == nil {
					list = []featureJSON{}
				}
				return r.JSON(list)
			}
			if requiredOnly && len(list) == 0 {
				r.Println("no transforms needed")
				return nil
			}

			rows := make([][]string, len(list))
			for i, f := range list {
				rows[i] = []string{f.Name, f.Edition, status(f.Transform)}
			}
			return r.Table("features", []string{"feature", "edition", "status"}, rows)
		},
	}

	cmd.Flags().BoolVar(&requiredOnly, "required", false, "Only list features that need a transform")
	return cmd
}
