package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddVersionCommand adds the version command to the root command.
func AddVersionCommand(root *cobra.Command, flags *GlobalFlags, info BuildInfo) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.Output == OutputJSON {
				return newOutput(cmd, flags).JSON(map[string]string{
					"version": orDefault(info.Version, "dev"),
					"commit":  orDefault(info.Commit, "none"),
					"date":    orDefault(info.Date, "unknown"),
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "crewgen %s\n", formatVersion(info))
			return err
		},
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
