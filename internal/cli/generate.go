package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/crewgen/internal/domain"
	"github.com/mrz1836/crewgen/internal/errors"
	"github.com/mrz1836/crewgen/internal/llm"
	"github.com/mrz1836/crewgen/internal/render"
	"github.com/mrz1836/crewgen/internal/tui"
)

type generateOptions struct {
	name        string
	objective   string
	description string
	apiKey      string
	save        bool
	export      string
	writeDir    string
}

// generateResult is the JSON shape of the generate command.
type generateResult struct {
	TeamID      string                    `json:"team_id,omitempty"`
	Team        *domain.TeamConfiguration `json:"team"`
	Explanation string                    `json:"explanation,omitempty"`
	ConfigFile  string                    `json:"config_file,omitempty"`
}

// AddGenerateCommand adds the generate command to the root command.
func AddGenerateCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newGenerateCmd(flags))
}

func newGenerateCmd(flags *GlobalFlags) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a team from a mission",
		Long: `Generate a complete team for a mission in one request: ordered tasks,
one agent per task, recommended tools and a workflow type.

Examples:
  crewgen generate --name "Marketing Campaign" --objective "Launch a product"
  crewgen generate --name "Support" --objective "Answer tickets faster" --save
  crewgen generate --name "Research" --objective "Map competitors" --write .`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newOutput(cmd, flags)
			return handleError(cmd, flags, out, runGenerate(cmd.Context(), cmd, flags, out, opts))
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "mission name (required)")
	cmd.Flags().StringVar(&opts.objective, "objective", "", "mission objective (required)")
	cmd.Flags().StringVar(&opts.description, "description", "", "optional mission description")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "use this API key instead of the platform key")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the team to the configured store")
	cmd.Flags().StringVar(&opts.export, "export", "", "write the team as YAML to this file")
	cmd.Flags().StringVar(&opts.writeDir, "write", "", "write the configuration document into this directory")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("objective")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, out tui.Output, opts *generateOptions) error {
	req := domain.GenerationRequest{
		Name:        strings.TrimSpace(opts.name),
		Objective:   strings.TrimSpace(opts.objective),
		Description: strings.TrimSpace(opts.description),
	}
	if !req.Validate() {
		return errors.NewExitCode2Error(errors.Wrap(errors.ErrEmptyValue, "--name and --objective must not be blank"))
	}

	a, err := newApp(ctx, flags)
	if err != nil {
		return err
	}

	generated, err := a.orchestrator.GenerateTeam(ctx, req, credentialFromFlag(opts.apiKey))
	if err != nil {
		return err
	}

	team := generated.Team()
	result := generateResult{Team: &team, Explanation: generated.Explanation}

	if opts.save {
		team.AssignIdentity(time.Now().UTC())
		if err := saveTeam(ctx, a, &team); err != nil {
			return err
		}
		result.TeamID = team.ID
	}

	if opts.export != "" {
		if err := writeTeamYAML(opts.export, &team); err != nil {
			return err
		}
	}

	if opts.writeDir != "" {
		path := filepath.Join(opts.writeDir, render.Filename(team.Mission.Name))
		if err := writeFile(path, render.New(a.catalog).Render(&team)); err != nil {
			return err
		}
		result.ConfigFile = path
	}

	if flags.Output == OutputJSON {
		return out.JSON(result)
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), tui.RenderMarkdown(tui.TeamMarkdown(&team, a.catalog)))
	if generated.Explanation != "" {
		out.Info(generated.Explanation)
	}
	if result.TeamID != "" {
		out.Success("Saved team " + result.TeamID)
	}
	if opts.export != "" {
		out.Success("Exported team to " + opts.export)
	}
	if result.ConfigFile != "" {
		out.Success("Wrote " + result.ConfigFile)
	}
	return nil
}

// credentialFromFlag returns the caller's own credential when key is set.
func credentialFromFlag(key string) llm.Credential {
	if key = strings.TrimSpace(key); key != "" {
		return llm.UserCredential(key)
	}
	return llm.PlatformCredential()
}

// saveTeam validates and persists team in the configured store.
func saveTeam(ctx context.Context, a *app, team *domain.TeamConfiguration) error {
	if err := team.Validate(); err != nil {
		return err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(st)
	return st.SaveTeam(ctx, team)
}

// writeFile writes content to path, creating parent directories.
func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
