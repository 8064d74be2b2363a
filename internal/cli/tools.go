package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/crewgen/internal/catalog"
	"github.com/mrz1836/crewgen/internal/tui"
)

// AddToolsCommand adds the tools command to the root command.
func AddToolsCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "tools",
		Short: "List the tools agents can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newOutput(cmd, flags)
			cat := catalog.Default()
			if flags.Output == OutputJSON {
				return out.JSON(cat.All())
			}
			headers, rows := tui.ToolRows(cat)
			out.Table(headers, rows)
			return nil
		},
	})
}
