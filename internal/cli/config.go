package cli

import (
	"net/url"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/crewgen/internal/config"
	"github.com/mrz1836/crewgen/internal/logging"
)

// configView is the displayed configuration with secrets masked.
type configView struct {
	config.Config `yaml:",inline"`

	PlatformKey string `yaml:"platform_key" json:"platform_key"`
}

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after merging defaults, ~/.crewgen/config.yaml,
.crewgen/config.yaml, CREWGEN_* environment variables and flags.

Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newOutput(cmd, flags)
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return handleError(cmd, flags, out, err)
			}

			view := maskedConfig(a.cfg)
			if flags.Output == OutputJSON {
				return out.JSON(view)
			}
			data, err := yaml.Marshal(view)
			if err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write(data)
			return nil
		},
	})
	root.AddCommand(cmd)
}

// maskedConfig copies cfg with the redis password redacted and the platform
// key shortened.
func maskedConfig(cfg *config.Config) configView {
	shown := *cfg
	if shown.Store.RedisURL != "" {
		if u, err := url.Parse(shown.Store.RedisURL); err == nil {
			shown.Store.RedisURL = u.Redacted()
		} else {
			shown.Store.RedisURL = logging.RedactedValue
		}
	}
	return configView{
		Config:      shown,
		PlatformKey: logging.MaskKey(cfg.LLM.PlatformAPIKey()),
	}
}
