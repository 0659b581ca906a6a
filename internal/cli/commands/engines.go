package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcompat/internal/cli/output"
	"github.com/leapstack-labs/leapcompat/pkg/engine"
	"github.com/leapstack-labs/leapcompat/pkg/esbuildtarget"
)

type engineJSON struct {
	Name    string   `json:"name"`
	Display string   `json:"display"`
	Aliases []string `json:"aliases"`
	Esbuild bool     `json:"esbuild"`
}

// NewEnginesCommand creates the engines command.
func NewEnginesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List known engines and their browserslist aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := engine.All()
			list := make([]engineJSON, len(all))
			for i, e := range all {
				aliases := e.Aliases()
				if aliases == nil {
					aliases = []string{}
				}
				list[i] = engineJSON{Name: e.String(), Display: e.DisplayName(), Aliases: aliases, Esbuild: esbuildtarget.Supported(e)}
			}

			r := output.FromContext(cmd.Context())
			if r.Mode() == output.ModeJSON {
				return r.JSON(list)
			}

			rows := make([][]string, len(list))
			for i, e := range list {
				esb := "no"
				if e.Esbuild {
					esb = "yes"
				}
				rows[i] = []string{e.Name, e.Display, strings.Join(e.Aliases, ", "), esb}
			}
			return r.Table("engines", []string{"engine", "name", "aliases", "esbuild"}, rows)
		},
	}
}
