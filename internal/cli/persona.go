package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/crewgen/internal/domain"
	"github.com/mrz1836/crewgen/internal/errors"
	"github.com/mrz1836/crewgen/internal/tui"
)

type personaOptions struct {
	role   string
	task   string
	apiKey string
}

// AddPersonaCommand adds the persona command to the root command.
func AddPersonaCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newPersonaCmd(flags))
}

func newPersonaCmd(flags *GlobalFlags) *cobra.Command {
	opts := &personaOptions{}

	cmd := &cobra.Command{
		Use:   "persona",
		Short: "Generate a goal and backstory for one role",
		Long: `Generate a goal and backstory for a single agent role.

Examples:
  crewgen persona --role "Market Researcher" --task "Analyze competitors"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newOutput(cmd, flags)
			return handleError(cmd, flags, out, runPersona(cmd.Context(), cmd, flags, out, opts))
		},
	}

	cmd.Flags().StringVar(&opts.role, "role", "", "agent role (required)")
	cmd.Flags().StringVar(&opts.task, "task", "", "task the agent performs")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "use this API key instead of the platform key")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func runPersona(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, out tui.Output, opts *personaOptions) error {
	req := domain.PersonaRequest{Role: strings.TrimSpace(opts.role), TaskDescription: strings.TrimSpace(opts.task)}
	if !req.Validate() {
		return errors.NewExitCode2Error(errors.Wrap(errors.ErrEmptyValue, "--role must not be blank"))
	}

	a, err := newApp(ctx, flags)
	if err != nil {
		return err
	}

	persona, err := a.orchestrator.GeneratePersona(ctx, req, credentialFromFlag(opts.apiKey))
	if err != nil {
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(persona)
	}

	tui.CheckNoColor()
	styles := tui.NewTableStyles()
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.Header.Render("Role:"), req.Role)
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.Header.Render("Goal:"), persona.Goal)
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.Header.Render("Backstory:"), persona.Backstory)
	return nil
}
