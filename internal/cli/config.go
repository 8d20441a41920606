package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/infra/config"
	"github.com/daybook-app/daybook/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage daybook configuration files.

Sources are merged in order, later ones winning:
  built-in defaults
  global config ($XDG_CONFIG_HOME/daybook/config.toml)
  local config (./.daybook.toml)
  --config FILE`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(s))
	cmd.AddCommand(newConfigInitCommand(s))
	cmd.AddCommand(newConfigTemplateCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long:  `Display which config files exist and the configuration after merging all sources.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{Effective: c.AppConfig})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			printConfigSource(w, out.GlobalConfig)
			printConfigSource(w, out.LocalConfig)
			if s.opts.ConfigPath != "" {
				_, _ = fmt.Fprintf(w, "- %s\n", s.opts.ConfigPath)
			}
			_, _ = fmt.Fprintf(w, "\n[Data]\n- store: %s\n- log: %s\n\n", c.Config.StorePath, c.Config.LogPath)

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			_, _ = fmt.Fprint(w, out.Effective)
			return nil
		},
	}
}

func printConfigSource(w io.Writer, info domain.ConfigInfo) {
	if info.Path == "" {
		return
	}
	if info.Exists {
		_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
	}
}

// newConfigInitCommand creates the config init subcommand.
// It works without loading existing config so a broken file can be replaced.
func newConfigInitCommand(_ *session) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a commented configuration file with default values.

By default the global config is created. Use --local to create
.daybook.toml in the current directory instead.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoContainer: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get current directory: %w", err)
			}
			uc := usecase.NewInitConfig(config.NewManager(cwd))
			out, err := uc.Execute(cmd.Context(), usecase.InitConfigInput{Local: local})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Create ./.daybook.toml instead of the global config")

	return cmd
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "template",
		Short:       "Print the default configuration",
		Long:        `Print the commented configuration template that config init writes.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoContainer: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := usecase.NewShowConfigTemplate().Execute(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Template)
			return nil
		},
	}
}
