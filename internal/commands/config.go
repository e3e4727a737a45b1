package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/relgpt/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure relgpt settings.

Changes are written to config.json in the config directory. The
endpoint is read-only here; set it in config.json, .env or ` + config.EnvEndpoint + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadFileConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return deps.TUI.RunConfig(cfg)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}
