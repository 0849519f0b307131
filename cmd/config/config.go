// Package config provides the config parent command and subcommands.
package config

import (
	"github.com/spf13/cobra"

	"github.com/leefowlercu/codedoc/cmd/config/subcommands"
)

// ConfigCmd is the parent command for all config-related subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage codedoc configuration",
	Long: "Manage codedoc configuration.\n\n" +
		"Configuration is read from config.yaml in $CODEDOC_CONFIG_DIR, " +
		"~/.config/codedoc/, or the working directory, in that order. Every key " +
		"can be overridden with a CODEDOC_ environment variable, for example " +
		"CODEDOC_NARRATOR_PROVIDER=openai.",
}

func init() {
	ConfigCmd.AddCommand(subcommands.ShowCmd)
	ConfigCmd.AddCommand(subcommands.InitCmd)
	ConfigCmd.AddCommand(subcommands.ValidateCmd)
}
