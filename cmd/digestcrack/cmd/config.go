package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/digestcrack/internal/config"
	"github.com/Aman-CERP/digestcrack/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the digestcrack configuration.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/digestcrack/config.yaml)
  3. Project config (.digestcrack.yaml), or the file passed with --config
  4. Environment variables (DIGESTCRACK_*)
  5. Command-line flags`,
		Example: `  # Create user config with defaults
  digestcrack config init

  # Show effective configuration
  digestcrack config show

  # Print user config file path
  digestcrack config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force, project bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create user configuration file",
		Long: `Write the default configuration to ~/.config/digestcrack/config.yaml
(or $XDG_CONFIG_HOME/digestcrack/config.yaml if XDG_CONFIG_HOME is set).

An existing file is kept unless --force is given; it is then backed up
before being replaced. The three newest backups are kept.

With --project, a commented .digestcrack.yaml is written to the working
directory instead.`,
		Args: cobra.NoArgs,
		// Runs without loading configuration so that a broken user config
		// can be replaced.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				return runConfigInitProject(cmd)
			}
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace existing configuration (a backup is kept)")
	cmd.Flags().BoolVar(&project, "project", false, "Write .digestcrack.yaml in the working directory")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, a.config(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "path",
		Short:             "Print user config file path",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	if config.UserConfigExists() && !force {
		out.Warning("User configuration already exists")
		out.Statusf("📁", "Location: %s", config.GetUserConfigPath())
		out.Newline()
		out.Status("💡", "Use --force to replace it with the defaults (a backup is kept)")
		return nil
	}

	path, backup, err := config.InitUserConfig(force)
	if err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	out.Success("Created user configuration")
	out.Statusf("📁", "Location: %s", path)
	if backup != "" {
		out.Statusf("💾", "Backup: %s", backup)
	}
	out.Newline()
	out.Status("📋", "Run 'digestcrack config show' to verify")
	return nil
}

func runConfigInitProject(cmd *cobra.Command) error {
	out := output.New(cmd.OutOrStdout())

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	path, err := config.InitProjectConfig(cwd)
	if err != nil {
		out.Warning("Project configuration already exists")
		out.Statusf("📁", "Location: %s", path)
		return nil
	}

	out.Success("Created project configuration")
	out.Statusf("📁", "Location: %s", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, cfg *config.Config, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
