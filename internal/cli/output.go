package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/crewgen/internal/errors"
	"github.com/mrz1836/crewgen/internal/tui"
)

// newOutput returns the formatter selected by --output for cmd.
func newOutput(cmd *cobra.Command, flags *GlobalFlags) tui.Output {
	return tui.NewOutput(cmd.OutOrStdout(), flags.Output)
}

// handleError reports err through out. In JSON mode the error is written to
// stdout and ErrJSONErrorOutput is returned so cobra does not print it again.
func handleError(cmd *cobra.Command, flags *GlobalFlags, out tui.Output, err error) error {
	if err == nil {
		return nil
	}
	if flags.Output == OutputJSON {
		out.Error(err)
		cmd.SilenceErrors = true
		return errors.ErrJSONErrorOutput
	}
	return err
}
