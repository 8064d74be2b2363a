package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/crewgen/internal/domain"
	"github.com/mrz1836/crewgen/internal/errors"
	"github.com/mrz1836/crewgen/internal/render"
	"github.com/mrz1836/crewgen/internal/tui"
)

// AddTeamsCommand adds the teams command group to the root command.
func AddTeamsCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Inspect saved teams",
	}
	cmd.AddCommand(newTeamsShowCmd(flags), newTeamsExportCmd(flags))
	root.AddCommand(cmd)
}

func newTeamsShowCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <team-id>",
		Short: "Show a saved team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd, flags)
			return handleError(cmd, flags, out, runTeamsShow(cmd.Context(), cmd, flags, out, args[0]))
		},
	}
}

func runTeamsShow(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, out tui.Output, id string) error {
	a, team, err := loadTeam(ctx, flags, id)
	if err != nil {
		return err
	}
	if flags.Output == OutputJSON {
		return out.JSON(team)
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), tui.RenderMarkdown(tui.TeamMarkdown(team, a.catalog)))
	return nil
}

func newTeamsExportCmd(flags *GlobalFlags) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export <team-id>",
		Short: "Export a saved team as YAML",
		Long: `Export a saved team as YAML. The export uses the same field names as the
JSON API, so it can be edited and posted back to /api/teams.

Examples:
  crewgen teams export 7d8c... > team.yaml
  crewgen teams export 7d8c... --file team.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd, flags)
			_, team, err := loadTeam(cmd.Context(), flags, args[0])
			if err != nil {
				return handleError(cmd, flags, out, err)
			}
			if path != "" {
				if err := writeTeamYAML(path, team); err != nil {
					return handleError(cmd, flags, out, err)
				}
				out.Success("Exported team to " + path)
				return nil
			}
			data, err := teamYAML(team)
			if err != nil {
				return handleError(cmd, flags, out, err)
			}
			_, _ = cmd.OutOrStdout().Write(data)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "write to this file instead of stdout")
	return cmd
}

// AddRenderCommand adds the render command to the root command.
func AddRenderCommand(root *cobra.Command, flags *GlobalFlags) {
	var dir string
	cmd := &cobra.Command{
		Use:   "render <team-id>",
		Short: "Render a saved team as a configuration document",
		Long: `Render a saved team as a multi-agent framework configuration document.

Examples:
  crewgen render 7d8c...
  crewgen render 7d8c... --write ./crews`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd, flags)
			a, team, err := loadTeam(cmd.Context(), flags, args[0])
			if err != nil {
				return handleError(cmd, flags, out, err)
			}

			doc := render.New(a.catalog).Render(team)
			filename := render.Filename(team.Mission.Name)

			if dir != "" {
				path := filepath.Join(dir, filename)
				if err := writeFile(path, doc); err != nil {
					return handleError(cmd, flags, out, err)
				}
				out.Success("Wrote " + path)
				return nil
			}
			if flags.Output == OutputJSON {
				return out.JSON(map[string]string{"yaml": doc, "filename": filename})
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "write", "", "write the document into this directory")
	root.AddCommand(cmd)
}

// loadTeam fetches team id from the configured store.
func loadTeam(ctx context.Context, flags *GlobalFlags, id string) (*app, *domain.TeamConfiguration, error) {
	a, err := newApp(ctx, flags)
	if err != nil {
		return nil, nil, err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer a.closeStore(st)

	team, err := st.GetTeam(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return a, team, nil
}

// teamYAML encodes team as block-style YAML with the JSON field names.
func teamYAML(team *domain.TeamConfiguration) ([]byte, error) {
	data, err := json.Marshal(team)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode team")
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "failed to convert team")
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

// blockStyle clears the flow and quoting styles inherited from the JSON source.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func writeTeamYAML(path string, team *domain.TeamConfiguration) error {
	data, err := teamYAML(team)
	if err != nil {
		return err
	}
	return writeFile(path, string(data))
}
